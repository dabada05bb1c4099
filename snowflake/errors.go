package snowflake

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKind is returned when a value cannot be interpreted as a Snowflake.
	ErrInvalidKind = errors.New("invalid snowflake value")
	// ErrFieldRange is returned by BuildChecked when a field exceeds its bit width.
	ErrFieldRange = errors.New("snowflake field out of range")
)

// KindError describes a value that could not be turned into a Snowflake.
type KindError struct {
	Value  any
	Reason string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("invalid snowflake %#v: %s", e.Value, e.Reason)
}

func (e *KindError) Unwrap() error {
	return ErrInvalidKind
}

// FieldRangeError describes a component field outside its allowed range.
type FieldRangeError struct {
	Field string
	Value string
	Range string
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("snowflake %s %s out of range (%s)", e.Field, e.Value, e.Range)
}

func (e *FieldRangeError) Unwrap() error {
	return ErrFieldRange
}

func newKindError(v any, reason string) *KindError {
	return &KindError{Value: v, Reason: reason}
}

func newFieldRangeError(field, value, rng string) *FieldRangeError {
	return &FieldRangeError{Field: field, Value: value, Range: rng}
}

// IsKindError reports whether err is, or wraps, an invalid-kind error.
func IsKindError(err error) bool {
	return errors.Is(err, ErrInvalidKind)
}

// IsFieldRangeError reports whether err is, or wraps, a field range error.
func IsFieldRangeError(err error) bool {
	return errors.Is(err, ErrFieldRange)
}
