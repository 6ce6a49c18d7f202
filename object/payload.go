package object

import (
	"bytes"
	"math"
	"math/bits"

	"github.com/arloliu/realmrecover/section"
	"github.com/arloliu/realmrecover/view"
)

// decodeBool reads 4-byte chunks until the next object marker or the end of
// the view and expands the accumulated little-endian integer into bits,
// least significant first. The marker is not consumed.
func (d *Decoder) decodeBool(c *view.Cursor) (Value, error) {
	var acc []byte
	for {
		chunk, err := c.Peek(section.MarkerSize)
		if err != nil {
			// partial tail at the end of the file still carries bits
			tail, _ := c.Read(int(c.Remaining())) //nolint:gosec
			acc = append(acc, tail...)

			break
		}

		if string(chunk) == section.Marker {
			break
		}
		acc = append(acc, chunk...)
		c.Seek(c.Pos() + uint64(section.MarkerSize))
	}

	return expandBits(acc), nil
}

// expandBits emits the bits of the little-endian integer in data, LSB first,
// up to and including the highest set bit. A zero integer yields a single false.
func expandBits(data []byte) List {
	high := -1
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] != 0 {
			high = i*8 + bits.Len8(data[i]) - 1
			break
		}
	}

	if high < 0 {
		return List{Bool(false)}
	}

	out := make(List, high+1)
	for i := 0; i <= high; i++ {
		out[i] = Bool((data[i/8]>>(i%8))&1 == 1)
	}

	return out
}

// readUints reads count little-endian integers of the given width.
// The whole range is bounds-checked before anything is allocated.
func (d *Decoder) readUints(c *view.Cursor, count, width int) ([]uint64, error) {
	data, err := c.Read(count * width)
	if err != nil {
		return nil, err
	}

	out := make([]uint64, count)
	for i := range out {
		chunk := data[i*width : (i+1)*width]
		switch width {
		case 1:
			out[i] = uint64(chunk[0])
		case 2:
			out[i] = uint64(d.engine.Uint16(chunk))
		case 4:
			out[i] = uint64(d.engine.Uint32(chunk))
		default:
			out[i] = d.engine.Uint64(chunk)
		}
	}

	return out, nil
}

func (d *Decoder) decodeUints(c *view.Cursor, count, width int) (Value, error) {
	raw, err := d.readUints(c, count, width)
	if err != nil {
		return nil, err
	}

	out := make(List, len(raw))
	for i, n := range raw {
		out[i] = Int(n)
	}

	return out, nil
}

// decodeInt32 decodes an Int32 array. When the array holds more than one value
// and the first is 0x7FFFFFFF, the sentinel is dropped and the remaining values
// are Unix-seconds timestamps.
func (d *Decoder) decodeInt32(c *view.Cursor, count int) (Value, error) {
	raw, err := d.readUints(c, count, 4)
	if err != nil {
		return nil, err
	}

	if len(raw) > 1 && raw[0] == int32TimestampSentinel {
		out := make(List, len(raw)-1)
		for i, sec := range raw[1:] {
			out[i] = NewTimestamp(int64(sec)) //nolint:gosec
		}

		return out, nil
	}

	out := make(List, len(raw))
	for i, n := range raw {
		out[i] = Int(n)
	}

	return out, nil
}

func (d *Decoder) decodeFloats(c *view.Cursor, count int) (Value, error) {
	raw, err := d.readUints(c, count, 4)
	if err != nil {
		return nil, err
	}

	out := make(List, len(raw))
	for i, n := range raw {
		out[i] = Float(math.Float32frombits(uint32(n))) //nolint:gosec
	}

	return out, nil
}

func (d *Decoder) decodeDoubles(c *view.Cursor, count int) (Value, error) {
	raw, err := d.readUints(c, count, 8)
	if err != nil {
		return nil, err
	}

	out := make(List, len(raw))
	for i, n := range raw {
		out[i] = Double(math.Float64frombits(n))
	}

	return out, nil
}

// decodeStrings reads count NUL-terminated strings. After each terminator any
// NUL padding is skipped, leaving the cursor on the next non-NUL byte.
func decodeStrings(c *view.Cursor, count int) (List, error) {
	out := make(List, 0, count)
	for range count {
		s, err := readCString(c)
		if err != nil {
			return nil, err
		}
		out = append(out, Text(s))
		skipPadding(c)
	}

	return out, nil
}

func readCString(c *view.Cursor) (string, error) {
	start := c.Pos()

	var buf []byte
	for {
		b, err := c.ReadByte()
		if err != nil {
			c.Seek(start)
			return "", err
		}

		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

func skipPadding(c *view.Cursor) {
	for {
		b, err := c.Peek(1)
		if err != nil || b[0] != 0 {
			return
		}
		c.Seek(c.Pos() + 1)
	}
}

// decodeBlob reads count raw bytes and trims trailing NULs. A blob that still
// contains NUL bytes is split into a List of Text, otherwise it is a single Text.
func decodeBlob(c *view.Cursor, count int) (Value, error) {
	data, err := c.Read(count)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimRight(data, "\x00")
	if bytes.IndexByte(trimmed, 0) < 0 {
		return Text(trimmed), nil
	}

	parts := bytes.Split(trimmed, []byte{0})
	out := make(List, len(parts))
	for i, p := range parts {
		out[i] = Text(p)
	}

	return out, nil
}
