package object

import (
	"math/bits"

	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/section"
)

const columnTypeBits = 4

// DecodeColumnTypes decodes a packed column-type word.
//
// The object header is validated but its tag and count are ignored. The
// payload is one little-endian uint64 holding a 4-bit type code per column,
// least significant nibble first. The number of columns is the number of
// nibbles needed to represent the word, so trailing columns of code 0 are
// not recoverable from the word alone and are absent from the result.
//
// Parameters:
//   - offset: Absolute offset of the object marker
//
// Returns:
//   - []format.ColumnType: One entry per column, in column order
//   - error: ErrSignatureMismatch or ErrOutOfBounds
func (d *Decoder) DecodeColumnTypes(offset uint64) ([]format.ColumnType, error) {
	d.visit(offset)

	c := d.v.Cursor(offset)
	if _, err := section.ReadObjectHeader(c); err != nil {
		return nil, err
	}

	word, err := c.ReadUint(d.engine, 8)
	if err != nil {
		return nil, err
	}

	n := (bits.Len64(word) + columnTypeBits - 1) / columnTypeBits
	types := make([]format.ColumnType, n)
	for i := range n {
		types[i] = format.ColumnTypeOf(uint8(word>>(i*columnTypeBits)) & 0xF) //nolint:gosec
	}

	return types, nil
}

// DecodeColumnNames decodes a column-name list: the header count gives the
// number of NUL-terminated names, whatever the tag.
func (d *Decoder) DecodeColumnNames(offset uint64) ([]string, error) {
	d.visit(offset)

	c := d.v.Cursor(offset)
	h, err := section.ReadObjectHeader(c)
	if err != nil {
		return nil, err
	}

	list, err := decodeStrings(c, int(h.Count))
	if err != nil {
		return nil, err
	}

	names, _ := list.Strings()

	return names, nil
}
