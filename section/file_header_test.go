package section

import (
	"testing"

	"github.com/arloliu/realmrecover/errs"
	"github.com/arloliu/realmrecover/view"
	"github.com/stretchr/testify/require"
)

func TestNewFileHeader(t *testing.T) {
	header := NewFileHeader(0x100, 0x200, RootFlagB)

	require.NotNil(t, header)
	require.Equal(t, uint64(0x100), header.RootOffsetA)
	require.Equal(t, uint64(0x200), header.RootOffsetB)
	require.Equal(t, byte(RootFlagB), header.RootFlag())
	require.NoError(t, header.Validate())
}

func TestFileHeader_Parse(t *testing.T) {
	t.Run("Flag 0x00 selects root A", func(t *testing.T) {
		data := NewFileHeader(0x1000, 0x2000, RootFlagA).Bytes()

		parsed := &FileHeader{}
		require.NoError(t, parsed.Parse(data))
		require.Equal(t, uint64(0x1000), parsed.RootOffsetA)
		require.Equal(t, uint64(0x2000), parsed.RootOffsetB)
		require.Equal(t, uint64(0x1000), parsed.ActiveRootOffset())
	})

	t.Run("Flag 0x01 selects root B", func(t *testing.T) {
		data := NewFileHeader(0x1000, 0x2000, RootFlagB).Bytes()

		parsed := &FileHeader{}
		require.NoError(t, parsed.Parse(data))
		require.Equal(t, uint64(0x2000), parsed.ActiveRootOffset())
		require.Equal(t, [2]uint64{0x1000, 0x2000}, parsed.Roots())
	})

	t.Run("Invalid flag", func(t *testing.T) {
		for _, flag := range []byte{0x02, 0x10, 0xFF} {
			data := NewFileHeader(0x1000, 0x2000, flag).Bytes()

			err := (&FileHeader{}).Parse(data)
			require.ErrorIs(t, err, errs.ErrInvalidRootFlag)
		}
	})

	t.Run("Invalid magic", func(t *testing.T) {
		data := NewFileHeader(0x1000, 0x2000, RootFlagA).Bytes()
		copy(data[OffsetMagic:], "SQLi")

		err := (&FileHeader{}).Parse(data)
		require.ErrorIs(t, err, errs.ErrMagicMismatch)
	})

	t.Run("Magic checked before flag", func(t *testing.T) {
		data := NewFileHeader(0x1000, 0x2000, 0x07).Bytes()
		data[OffsetMagic] = 'X'

		err := (&FileHeader{}).Parse(data)
		require.ErrorIs(t, err, errs.ErrMagicMismatch)
	})

	t.Run("Invalid size", func(t *testing.T) {
		err := (&FileHeader{}).Parse([]byte{1, 2, 3})
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
	})
}

func TestFileHeader_Bytes(t *testing.T) {
	data := NewFileHeader(0x0102030405060708, 0x10, RootFlagA).Bytes()

	require.Len(t, data, FileHeaderSize)
	require.Equal(t, byte(0x08), data[0])
	require.Equal(t, byte(0x01), data[7])
	require.Equal(t, byte(0x10), data[OffsetRootB])
	require.Equal(t, MagicPrefix, string(data[OffsetMagic:OffsetMagic+4]))
}

func TestParseFileHeader(t *testing.T) {
	t.Run("from view", func(t *testing.T) {
		data := append(NewFileHeader(0x18, 0x40, RootFlagB).Bytes(), "trailing"...)

		h, err := ParseFileHeader(view.FromBytes(data))
		require.NoError(t, err)
		require.Equal(t, uint64(0x40), h.ActiveRootOffset())
	})

	t.Run("truncated file", func(t *testing.T) {
		_, err := ParseFileHeader(view.FromBytes([]byte("T-DB")))
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
	})
}
