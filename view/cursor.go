package view

import (
	"github.com/arloliu/realmrecover/endian"
)

// Cursor reads sequentially from a View starting at an absolute offset.
//
// A failed read leaves the position unchanged.
//
// Note: Cursor is NOT thread-safe.
type Cursor struct {
	v   *View
	pos uint64
}

// Pos returns the current absolute offset.
func (c *Cursor) Pos() uint64 {
	return c.pos
}

// Seek moves the cursor to an absolute offset. Seeking past the end is allowed;
// the next read fails.
func (c *Cursor) Seek(offset uint64) {
	c.pos = offset
}

// Remaining returns the number of bytes between the cursor and the end of the view.
func (c *Cursor) Remaining() uint64 {
	if c.pos >= c.v.size {
		return 0
	}

	return c.v.size - c.pos
}

// Read returns the next n bytes and advances past them.
func (c *Cursor) Read(n int) ([]byte, error) {
	b, err := c.v.ReadAt(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += uint64(n)

	return b, nil
}

// Peek returns the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	return c.v.ReadAt(c.pos, n)
}

// ReadByte returns the next byte and advances by one.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.v.ByteAt(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos++

	return b, nil
}

// ReadUint reads an unsigned integer of the given width (1, 2, 4 or 8) with the engine.
func (c *Cursor) ReadUint(engine endian.EndianEngine, width int) (uint64, error) {
	b, err := c.v.ReadAt(c.pos, width)
	if err != nil {
		return 0, err
	}

	val, err := endian.Uint(engine, b)
	if err != nil {
		return 0, err
	}
	c.pos += uint64(width) //nolint:gosec

	return val, nil
}
