package ustring

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a position argument outside the valid range.
var ErrOutOfRange = errors.New("index out of range")

// RangeError describes a rejected position argument.
type RangeError struct {
	Op    string // operation that rejected the index
	Index int    // offending index
	Len   int    // length the index was checked against
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("ustring: %s: index %d out of range for length %d", e.Op, e.Index, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

func outOfRange(op string, index, length int) error {
	return &RangeError{Op: op, Index: index, Len: length}
}
