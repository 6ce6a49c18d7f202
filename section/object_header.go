package section

import (
	"fmt"

	"github.com/arloliu/realmrecover/endian"
	"github.com/arloliu/realmrecover/errs"
	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/view"
)

// ObjectHeader is the 8-byte prefix of every tagged object.
//
//	Bytes | Field  | Encoding
//	------|--------|------------------------------
//	0-3   | Marker | "AAAA"
//	4-5   | Tag    | uint16 little-endian
//	6-7   | Count  | uint16 big-endian
type ObjectHeader struct {
	Offset uint64 // absolute offset of the marker
	Tag    uint16
	Count  uint16
}

// Kind returns the payload kind selected by the tag.
func (h ObjectHeader) Kind() format.ObjectKind {
	return format.KindOf(h.Tag)
}

// PayloadOffset returns the absolute offset of the first payload byte.
func (h ObjectHeader) PayloadOffset() uint64 {
	return h.Offset + ObjectHeaderSize
}

// Parse parses an object header from exactly ObjectHeaderSize bytes.
//
// Returns:
//   - error: ErrOutOfBounds if data has the wrong size, ErrSignatureMismatch if the marker is absent
func (h *ObjectHeader) Parse(data []byte) error {
	if len(data) != ObjectHeaderSize {
		return errs.OutOfBounds(h.Offset, ObjectHeaderSize, uint64(len(data)))
	}

	if string(data[:MarkerSize]) != Marker {
		return fmt.Errorf("%w: %q != %q", errs.ErrSignatureMismatch, data[:MarkerSize], Marker)
	}

	h.Tag = endian.GetLittleEndianEngine().Uint16(data[objectTagOffset:objectCountOffset])
	h.Count = endian.GetBigEndianEngine().Uint16(data[objectCountOffset:ObjectHeaderSize])

	return nil
}

// AppendTo appends the serialized header (marker, tag, count) to dst.
func (h ObjectHeader) AppendTo(dst []byte) []byte {
	dst = append(dst, Marker...)
	dst = endian.GetLittleEndianEngine().AppendUint16(dst, h.Tag)

	return endian.GetBigEndianEngine().AppendUint16(dst, h.Count)
}

// ReadObjectHeader verifies the marker at the cursor and reads tag and count,
// leaving the cursor at the first payload byte.
//
// Parameters:
//   - c: Cursor positioned at the object marker
//
// Returns:
//   - ObjectHeader: Parsed header with Offset set to the marker position
//   - error: ErrSignatureMismatch or ErrOutOfBounds; the cursor is not advanced on error
func ReadObjectHeader(c *view.Cursor) (ObjectHeader, error) {
	h := ObjectHeader{Offset: c.Pos()}

	if marker, err := c.Peek(MarkerSize); err != nil {
		return h, fmt.Errorf("%w: %w", errs.ErrSignatureMismatch, err)
	} else if string(marker) != Marker {
		return h, fmt.Errorf("%w: %q != %q", errs.ErrSignatureMismatch, marker, Marker)
	}

	data, err := c.Peek(ObjectHeaderSize)
	if err != nil {
		return h, err
	}

	if err := h.Parse(data); err != nil {
		return h, err
	}
	c.Seek(h.PayloadOffset())

	return h, nil
}
