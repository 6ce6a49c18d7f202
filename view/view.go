// Package view provides the read-only, randomly addressable byte view every decoder borrows.
//
// A View never owns decoding state. It wraps an io.ReaderAt of known size
// (a memory-mapped file or an in-memory buffer) and turns every out-of-range
// access into an errs.ErrOutOfBounds error, so that offsets read from an
// untrusted file can be followed without risking a panic.
//
// Views are safe for concurrent use. Cursors are not; each walk creates its own.
package view

import (
	"bytes"
	"io"

	"github.com/arloliu/realmrecover/errs"
)

// Source is the random-access collaborator a View reads from.
type Source interface {
	io.ReaderAt
	Len() int
}

// byteAt is implemented by sources that can return a single byte without allocating.
type byteAt interface {
	At(i int) byte
}

// View is a bounds-checked, read-only window over a byte source.
type View struct {
	src    io.ReaderAt
	data   []byte // set when backed by memory, reads are served as sub-slices
	size   uint64
	closer io.Closer
}

// New creates a View over src. The view does not take ownership of src.
func New(src Source) *View {
	v := &View{
		src:  src,
		size: uint64(src.Len()), //nolint:gosec
	}

	return v
}

// FromBytes creates a View over an in-memory buffer.
//
// The buffer must not be modified while the view is in use; slices returned by
// ReadAt alias it.
func FromBytes(data []byte) *View {
	return &View{
		src:  bytes.NewReader(data),
		data: data,
		size: uint64(len(data)),
	}
}

// Size returns the total number of addressable bytes.
func (v *View) Size() uint64 {
	return v.size
}

// Close releases the underlying source if the view owns it (see Open).
func (v *View) Close() error {
	if v.closer == nil {
		return nil
	}

	err := v.closer.Close()
	v.closer = nil

	return err
}

// InBounds reports whether n bytes starting at offset lie inside the view.
func (v *View) InBounds(offset uint64, n int) bool {
	if n < 0 || offset > v.size {
		return false
	}

	return uint64(n) <= v.size-offset
}

// ReadAt returns n bytes starting at the absolute offset.
//
// For memory-backed views the returned slice aliases the buffer and must be
// treated as read-only. For other sources a fresh slice is allocated.
//
// Parameters:
//   - offset: Absolute byte offset, untrusted
//   - n: Number of bytes to read
//
// Returns:
//   - []byte: The requested bytes
//   - error: ErrOutOfBounds if the range crosses the end of the view
func (v *View) ReadAt(offset uint64, n int) ([]byte, error) {
	if !v.InBounds(offset, n) {
		return nil, errs.OutOfBounds(offset, n, v.size)
	}

	if v.data != nil {
		return v.data[offset : offset+uint64(n) : offset+uint64(n)], nil
	}

	buf := make([]byte, n)
	if _, err := v.src.ReadAt(buf, int64(offset)); err != nil && err != io.EOF { //nolint:gosec
		return nil, err
	}

	return buf, nil
}

// ByteAt returns the single byte at offset.
func (v *View) ByteAt(offset uint64) (byte, error) {
	if offset >= v.size {
		return 0, errs.OutOfBounds(offset, 1, v.size)
	}

	if v.data != nil {
		return v.data[offset], nil
	}

	if b, ok := v.src.(byteAt); ok {
		return b.At(int(offset)), nil //nolint:gosec
	}

	buf, err := v.ReadAt(offset, 1)
	if err != nil {
		return 0, err
	}

	return buf[0], nil
}

// Cursor returns a new cursor positioned at offset.
func (v *View) Cursor(offset uint64) *Cursor {
	return &Cursor{v: v, pos: offset}
}

// SectionReader returns an io.Reader over the whole view.
func (v *View) SectionReader() *io.SectionReader {
	return io.NewSectionReader(v.src, 0, int64(v.size)) //nolint:gosec
}
