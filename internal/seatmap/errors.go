package seatmap

import (
	"errors"
	"fmt"
)

// Error kinds returned by the seat map kernel. Match them with errors.Is.
var (
	ErrInvalidConfiguration   = errors.New("invalid configuration")
	ErrUnknownClassification  = errors.New("unknown classification")
	ErrInconsistentSeatRecord = errors.New("inconsistent seat record")
)

// Error carries the detail of a kernel validation failure
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindName returns the short machine name of a kernel error kind, or "" when err is not one
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, ErrUnknownClassification):
		return "unknown_classification"
	case errors.Is(err, ErrInconsistentSeatRecord):
		return "inconsistent_seat_record"
	default:
		return ""
	}
}

func invalidConfig(field, format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidConfiguration, Field: field, Message: fmt.Sprintf(format, args...)}
}

func inconsistent(field, format string, args ...interface{}) error {
	return &Error{Kind: ErrInconsistentSeatRecord, Field: field, Message: fmt.Sprintf(format, args...)}
}
