package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		tag  uint16
		kind ObjectKind
	}{
		{0x01, KindBool},
		{0x04, KindInt8},
		{0x05, KindInt16},
		{0x06, KindInt32},
		{0x07, KindInt64},
		{0x0B, KindFloat},
		{0x0C, KindDouble},
		{0x0D, KindString},
		{0x0E, KindString},
		{0x11, KindBlob},
		{0x45, KindOffsetsNarrow},
		{0x65, KindOffsetsNarrow},
		{0x46, KindOffsetsWide},
		{0x66, KindOffsetsWide},
		{0x03, KindUnknown},
		{0x43, KindUnknown},
		{0xFFFF, KindUnknown},
	}

	for _, tc := range cases {
		require.Equal(t, tc.kind, KindOf(tc.tag), "tag 0x%x", tc.tag)
	}
}

func TestObjectKind_OffsetList(t *testing.T) {
	require.True(t, KindOffsetsNarrow.IsOffsetList())
	require.True(t, KindOffsetsWide.IsOffsetList())
	require.False(t, KindInt32.IsOffsetList())

	require.Equal(t, 2, KindOffsetsNarrow.OffsetWidth())
	require.Equal(t, 4, KindOffsetsWide.OffsetWidth())
	require.Equal(t, 0, KindBlob.OffsetWidth())
}

func TestColumnTypeOf(t *testing.T) {
	require.Equal(t, ColumnTypeInteger, ColumnTypeOf(0x0))
	require.Equal(t, ColumnTypeBool, ColumnTypeOf(0x1))
	require.Equal(t, ColumnTypeLinkList, ColumnTypeOf(0xD))

	for _, code := range []uint8{0x3, 0xB, 0xE, 0xF} {
		require.Equal(t, ColumnTypeUnknown, ColumnTypeOf(code))
		require.Equal(t, "Unknown", ColumnTypeOf(code).String())
	}

	require.Equal(t, "OldDateTime", ColumnTypeOldDateTime.String())
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"":     CompressionNone,
		"none": CompressionNone,
		"ZSTD": CompressionZstd,
		"s2":   CompressionS2,
		"lz4":  CompressionLZ4,
		"xz":   CompressionXZ,
	} {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseCompression("brotli")
	require.Error(t, err)

	require.Equal(t, ".zst", CompressionZstd.Extension())
	require.Equal(t, "", CompressionNone.Extension())
}
