package components

import (
	"errors"
	"fmt"

	"github.com/soyeahso/cordkit/internal/validation"
)

var (
	// ErrValidation is the sentinel wrapped by every *ValidationError.
	ErrValidation = errors.New("component validation failed")
	// ErrEmoji is the sentinel wrapped by every *EmojiError.
	ErrEmoji = errors.New("invalid component emoji")
)

// ValidationError reports a component that violates a structural rule or a
// field limit. Field is empty for rules that span several fields.
type ValidationError struct {
	Component ComponentType
	Field     string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s: %s", e.Component, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// EmojiError reports an emoji with neither or both of name and id.
type EmojiError struct {
	Message string
}

func (e *EmojiError) Error() string {
	return "invalid emoji: " + e.Message
}

func (e *EmojiError) Unwrap() error {
	return ErrEmoji
}

// IsValidationError reports whether err is, or wraps, a component validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsEmojiError reports whether err is, or wraps, an emoji error.
func IsEmojiError(err error) bool {
	return errors.Is(err, ErrEmoji)
}

func invalid(ct ComponentType, msg string) *ValidationError {
	return &ValidationError{Component: ct, Message: msg}
}

func invalidf(ct ComponentType, format string, args ...any) *ValidationError {
	return &ValidationError{Component: ct, Message: fmt.Sprintf(format, args...)}
}

// checkFields runs the struct tag limits of v.
func checkFields(ct ComponentType, v any) error {
	err := validation.Struct(v)
	if err == nil {
		return nil
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Component: ct, Field: fe.Field, Message: fe.Message}
	}
	return fmt.Errorf("validating %s: %w", ct, err)
}
