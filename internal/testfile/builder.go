// Package testfile builds synthetic database images for tests.
package testfile

import (
	"github.com/arloliu/realmrecover/endian"
	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/section"
	"github.com/arloliu/realmrecover/view"
)

// Builder appends tagged objects after a reserved file header.
// Every append method returns the offset of the object it wrote.
type Builder struct {
	buf []byte
}

// Table describes one table for Database.
type Table struct {
	Types []format.ColumnType
	Names []string
	// Columns are data object offsets; they become the table's data offset list.
	Columns []uint64
}

// New creates a builder with a zeroed header; call Header to fill it.
func New() *Builder {
	return &Builder{buf: make([]byte, section.FileHeaderSize)}
}

// Header writes the file header.
func (b *Builder) Header(rootA, rootB uint64, flag byte) *Builder {
	copy(b.buf, section.NewFileHeader(rootA, rootB, flag).Bytes())
	return b
}

// Offset returns the offset the next object will be written at.
func (b *Builder) Offset() uint64 {
	return uint64(len(b.buf))
}

// Raw appends raw bytes.
func (b *Builder) Raw(data []byte) uint64 {
	off := b.Offset()
	b.buf = append(b.buf, data...)

	return off
}

// Object appends a header followed by the payload.
func (b *Builder) Object(tag, count uint16, payload []byte) uint64 {
	off := b.Offset()
	b.buf = section.ObjectHeader{Tag: tag, Count: count}.AppendTo(b.buf)
	b.buf = append(b.buf, payload...)

	return off
}

// Ints appends an integer array of the tag's width.
func (b *Builder) Ints(tag uint16, vals ...uint64) uint64 {
	width := widthOf(tag)
	le := endian.GetLittleEndianEngine()

	var payload []byte
	for _, v := range vals {
		payload = endian.AppendUint(le, payload, v, width)
	}

	return b.Object(tag, uint16(len(vals)), payload) //nolint:gosec
}

// Offsets32 appends a wide offset list.
func (b *Builder) Offsets32(offsets ...uint64) uint64 {
	return b.Ints(format.TagOffsets32, offsets...)
}

// Offsets16 appends a narrow offset list.
func (b *Builder) Offsets16(offsets ...uint64) uint64 {
	return b.Ints(format.TagOffsets16, offsets...)
}

// Strings appends a string array, each value NUL-terminated and padded to 8 bytes.
func (b *Builder) Strings(vals ...string) uint64 {
	var payload []byte
	for _, s := range vals {
		payload = append(payload, s...)
		payload = append(payload, 0)
		for len(payload)%8 != 0 {
			payload = append(payload, 0)
		}
	}

	return b.Object(format.TagString, uint16(len(vals)), payload) //nolint:gosec
}

// ColumnTypes appends a packed column-type word.
func (b *Builder) ColumnTypes(types ...format.ColumnType) uint64 {
	var word uint64
	for i, t := range types {
		word |= uint64(t&0xF) << (4 * i)
	}
	payload := endian.GetLittleEndianEngine().AppendUint64(nil, word)

	return b.Object(format.TagInt64, 1, payload)
}

// Patch overwrites bytes at offset, growing nothing.
func (b *Builder) Patch(offset uint64, data []byte) {
	copy(b.buf[offset:], data)
}

// Database appends a complete root tree and returns the root offset.
// The table information list gets two leading metadata entries followed by info.
func (b *Builder) Database(info []uint64, tables ...Table) uint64 {
	meta1 := b.Ints(format.TagInt64, 1)
	meta2 := b.Ints(format.TagInt64, 2)
	tableInfo := b.Offsets32(append([]uint64{meta1, meta2}, info...)...)

	aux1 := b.Strings("aux")
	aux2 := b.Ints(format.TagInt8, 9)
	entries := []uint64{aux1, aux2}
	for _, t := range tables {
		typesOff := b.ColumnTypes(t.Types...)
		namesOff := b.Strings(t.Names...)
		schema := b.Offsets32(typesOff, namesOff)
		data := b.Offsets32(t.Columns...)
		entries = append(entries, b.Offsets32(schema, data))
	}
	tableArray := b.Offsets32(entries...)
	extra := b.Ints(format.TagInt16, 7)

	return b.Offsets32(tableInfo, tableArray, extra)
}

// Bytes returns the image.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// View returns a view over the image.
func (b *Builder) View() *view.View {
	return view.FromBytes(b.buf)
}

func widthOf(tag uint16) int {
	switch format.KindOf(tag) {
	case format.KindInt8:
		return 1
	case format.KindInt16, format.KindOffsetsNarrow:
		return 2
	case format.KindInt32, format.KindFloat, format.KindOffsetsWide:
		return 4
	default:
		return 8
	}
}
