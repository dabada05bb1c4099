package messages

import (
	"errors"
	"fmt"

	"github.com/soyeahso/cordkit/internal/validation"
)

// ErrInvalidMessage is the sentinel wrapped by every *ValidationError.
var ErrInvalidMessage = errors.New("invalid message")

// ValidationError reports a request that Discord would reject.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid message: " + e.Message
	}
	return fmt.Sprintf("invalid message: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidMessage
}

// IsValidationError reports whether err is, or wraps, a message validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidMessage)
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func checkFields(v any) error {
	err := validation.Struct(v)
	if err == nil {
		return nil
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return err
}
