package footprint

import (
	"errors"
	"fmt"
)

// ErrSerialization marks a footprint or item that cannot be written.
var ErrSerialization = errors.New("serialization precondition unmet")

// SerializationError reports the item and field that violated the format.
type SerializationError struct {
	Item   string // "header", "line", "pad 1", ...
	Field  string
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%v: %s %s: %s", ErrSerialization, e.Item, e.Field, e.Reason)
}

func (e *SerializationError) Unwrap() error { return ErrSerialization }

func serializationErr(item, field, format string, args ...any) error {
	return &SerializationError{Item: item, Field: field, Reason: fmt.Sprintf(format, args...)}
}
