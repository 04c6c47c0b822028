package trace

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput marks a non-positive or non-finite calculator input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateGeometry marks sizing inputs that cannot yield a serpentine
	// with at least two fingers.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// InputError reports the offending field of a rejected input.
type InputError struct {
	Field string
	Value float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: %s must be positive and finite, got %g", ErrInvalidInput, e.Field, e.Value)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// GeometryError reports why a serpentine could not be sized.
type GeometryError struct {
	Reason string
	Height float64 // Finger height in mm
	Delta  float64 // Finger pitch (clearance + width) in mm
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: %s (height %g mm, pitch %g mm)", ErrDegenerateGeometry, e.Reason, e.Height, e.Delta)
}

func (e *GeometryError) Unwrap() error { return ErrDegenerateGeometry }

// RequirePositive returns an *InputError unless v is positive and finite.
func RequirePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InputError{Field: field, Value: v}
	}
	return nil
}
