package section

import (
	"fmt"

	"github.com/arloliu/realmrecover/endian"
	"github.com/arloliu/realmrecover/errs"
	"github.com/arloliu/realmrecover/view"
)

// FileHeader represents the fixed-size header at offset 0 of the database file.
type FileHeader struct {
	// RootOffsetA is the first stored root object offset.
	RootOffsetA uint64 // byte offset 0-7
	// RootOffsetB is the second stored root object offset.
	RootOffsetB uint64 // byte offset 8-15
	// Magic is the database signature followed by reserved bytes and the root flag.
	Magic [MagicSize]byte // byte offset 16-23
}

// NewFileHeader creates a FileHeader with a valid signature and the given roots and flag.
func NewFileHeader(rootA, rootB uint64, flag byte) *FileHeader {
	h := &FileHeader{RootOffsetA: rootA, RootOffsetB: rootB}
	copy(h.Magic[:], MagicPrefix)
	h.Magic[RootFlagIndex] = flag

	return h
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 24 bytes)
//
// Returns:
//   - error: ErrOutOfBounds if data is not 24 bytes, ErrMagicMismatch or ErrInvalidRootFlag
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != FileHeaderSize {
		return errs.OutOfBounds(0, FileHeaderSize, uint64(len(data)))
	}

	engine := endian.GetLittleEndianEngine()
	h.RootOffsetA = engine.Uint64(data[OffsetRootA : OffsetRootA+8])
	h.RootOffsetB = engine.Uint64(data[OffsetRootB : OffsetRootB+8])
	copy(h.Magic[:], data[OffsetMagic:OffsetMagic+MagicSize])

	return h.Validate()
}

// Validate checks the signature prefix and the root flag byte.
func (h *FileHeader) Validate() error {
	if string(h.Magic[:len(MagicPrefix)]) != MagicPrefix {
		return fmt.Errorf("%w: %q != %q", errs.ErrMagicMismatch, h.Magic[:], MagicPrefix)
	}

	switch flag := h.RootFlag(); flag {
	case RootFlagA, RootFlagB:
		return nil
	default:
		return fmt.Errorf("%w: 0x%02x, expected 0x00 or 0x01", errs.ErrInvalidRootFlag, flag)
	}
}

// RootFlag returns the last byte of the magic field.
func (h *FileHeader) RootFlag() byte {
	return h.Magic[RootFlagIndex]
}

// ActiveRootOffset returns the root selected by the flag byte.
// The header must have been validated.
func (h *FileHeader) ActiveRootOffset() uint64 {
	if h.RootFlag() == RootFlagB {
		return h.RootOffsetB
	}

	return h.RootOffsetA
}

// Roots returns both stored root offsets in A, B order, regardless of which is active.
func (h *FileHeader) Roots() [2]uint64 {
	return [2]uint64{h.RootOffsetA, h.RootOffsetB}
}

// Bytes serializes the header into a 24-byte slice.
func (h *FileHeader) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	b := make([]byte, 0, FileHeaderSize)
	b = engine.AppendUint64(b, h.RootOffsetA)
	b = engine.AppendUint64(b, h.RootOffsetB)
	b = append(b, h.Magic[:]...)

	return b
}

// ParseFileHeader reads and validates the header at offset 0 of the view.
//
// Parameters:
//   - v: View over the whole file
//
// Returns:
//   - FileHeader: Parsed header
//   - error: ErrOutOfBounds for files shorter than the header, ErrMagicMismatch or ErrInvalidRootFlag
func ParseFileHeader(v *view.View) (FileHeader, error) {
	data, err := v.ReadAt(0, FileHeaderSize)
	if err != nil {
		return FileHeader{}, fmt.Errorf("file header: %w", err)
	}

	h := FileHeader{}
	if err := h.Parse(data); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
