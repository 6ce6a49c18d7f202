// Package errs defines the sentinel and typed errors returned by realmrecover.
//
// Sentinels are compared with errors.Is. Typed errors carry the offset or tag
// that failed and unwrap to their sentinel, so callers never need to inspect
// the concrete type unless they want the extra context.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a read crosses the end of the byte view.
	ErrOutOfBounds = errors.New("read out of bounds")

	// ErrMagicMismatch is returned when the file header does not carry the database signature.
	ErrMagicMismatch = errors.New("magic mismatch")
	// ErrInvalidRootFlag is returned when the header flag byte is neither 0x00 nor 0x01.
	ErrInvalidRootFlag = errors.New("invalid root flag")

	// ErrSignatureMismatch is returned when the object marker is absent at an object position.
	ErrSignatureMismatch = errors.New("object signature mismatch")
	// ErrUnknownObjectType is returned when an object carries a tag outside the dispatch table.
	ErrUnknownObjectType = errors.New("unknown object type")

	// ErrCyclicReference is returned when nested resolution re-enters an offset already on the stack.
	ErrCyclicReference = errors.New("cyclic reference")
	// ErrDepthExceeded is returned when nested resolution goes deeper than the configured limit.
	// It also matches ErrCyclicReference.
	ErrDepthExceeded = fmt.Errorf("%w: nesting depth exceeded", ErrCyclicReference)

	// ErrInvalidRootObject is returned when the root or table array object has too few entries.
	ErrInvalidRootObject = errors.New("invalid root object")
	// ErrInvalidTableShape is returned when a table entry is not exactly [schema, data].
	ErrInvalidTableShape = errors.New("invalid table shape")
	// ErrUnexpectedValue is returned when an object decodes to a value of the wrong shape.
	ErrUnexpectedValue = errors.New("unexpected value shape")

	// ErrInvalidCompression is returned for an unknown artifact compression name.
	ErrInvalidCompression = errors.New("invalid compression type")
)

// ObjectError records which object offset failed during which walk stage.
type ObjectError struct {
	Offset uint64 // Offset of the object that failed
	Stage  string // Walk stage (e.g. "root", "table-info", "schema")
	Err    error  // Underlying error
}

func (e *ObjectError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s object at 0x%x: %v", e.Stage, e.Offset, e.Err)
	}

	return fmt.Sprintf("object at 0x%x: %v", e.Offset, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

// UnknownObjectTypeError reports the tag that could not be dispatched.
type UnknownObjectTypeError struct {
	Tag uint16
}

func (e *UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("unknown object type: 0x%x", e.Tag)
}

func (e *UnknownObjectTypeError) Unwrap() error {
	return ErrUnknownObjectType
}

// InvalidTableShapeError reports a table entry whose length is not 2.
type InvalidTableShapeError struct {
	Offset uint64
	Length int
}

func (e *InvalidTableShapeError) Error() string {
	return fmt.Sprintf("invalid table object length at 0x%x: %d, expected 2", e.Offset, e.Length)
}

func (e *InvalidTableShapeError) Unwrap() error {
	return ErrInvalidTableShape
}

// NewObject wraps err with the offset and stage it occurred at. Returns nil if err is nil.
func NewObject(stage string, offset uint64, err error) error {
	if err == nil {
		return nil
	}

	return &ObjectError{Offset: offset, Stage: stage, Err: err}
}

// OutOfBounds builds an ErrOutOfBounds error for a read of n bytes at offset within size.
func OutOfBounds(offset uint64, n int, size uint64) error {
	return fmt.Errorf("%w: %d bytes at 0x%x, size 0x%x", ErrOutOfBounds, n, offset, size)
}
