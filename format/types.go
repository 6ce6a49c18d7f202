package format

import (
	"fmt"
	"strings"
)

type (
	ObjectKind      uint8
	ColumnType      uint8
	CompressionType uint8
)

// Object kinds, one per payload shape. Several tags may share a kind.
const (
	KindUnknown       ObjectKind = iota // KindUnknown is any tag outside the dispatch table.
	KindBool                            // KindBool is a bit-vector terminated by the next marker.
	KindInt8                            // KindInt8 is count × 1-byte integers.
	KindInt16                           // KindInt16 is count × 2-byte integers.
	KindInt32                           // KindInt32 is count × 4-byte integers, timestamp heuristic applies.
	KindInt64                           // KindInt64 is count × 8-byte integers.
	KindFloat                           // KindFloat is count × IEEE float32.
	KindDouble                          // KindDouble is count × IEEE float64.
	KindString                          // KindString is count × NUL-terminated strings.
	KindBlob                            // KindBlob is one fixed-length blob of count bytes.
	KindOffsetsNarrow                   // KindOffsetsNarrow is count × 2-byte offsets.
	KindOffsetsWide                     // KindOffsetsWide is count × 4-byte offsets.
)

// Object type tags as stored after the marker.
const (
	TagBool           uint16 = 0x01
	TagInt8           uint16 = 0x04
	TagInt16          uint16 = 0x05
	TagInt32          uint16 = 0x06
	TagInt64          uint16 = 0x07
	TagFloat          uint16 = 0x0B
	TagDouble         uint16 = 0x0C
	TagString         uint16 = 0x0D
	TagStringAlt      uint16 = 0x0E
	TagBlob           uint16 = 0x11
	TagOffsets16      uint16 = 0x45
	TagOffsets32      uint16 = 0x46
	TagOffsets16Inner uint16 = 0x65
	TagOffsets32Inner uint16 = 0x66
)

// KindOf maps a type tag to its object kind. Unrecognized tags map to KindUnknown.
func KindOf(tag uint16) ObjectKind {
	switch tag {
	case TagBool:
		return KindBool
	case TagInt8:
		return KindInt8
	case TagInt16:
		return KindInt16
	case TagInt32:
		return KindInt32
	case TagInt64:
		return KindInt64
	case TagFloat:
		return KindFloat
	case TagDouble:
		return KindDouble
	case TagString, TagStringAlt:
		return KindString
	case TagBlob:
		return KindBlob
	case TagOffsets16, TagOffsets16Inner:
		return KindOffsetsNarrow
	case TagOffsets32, TagOffsets32Inner:
		return KindOffsetsWide
	default:
		return KindUnknown
	}
}

// IsOffsetList reports whether the kind carries references to other objects.
func (k ObjectKind) IsOffsetList() bool {
	return k == KindOffsetsNarrow || k == KindOffsetsWide
}

// OffsetWidth returns the byte width of one offset for offset-list kinds, 0 otherwise.
func (k ObjectKind) OffsetWidth() int {
	switch k {
	case KindOffsetsNarrow:
		return 2
	case KindOffsetsWide:
		return 4
	default:
		return 0
	}
}

func (k ObjectKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindBlob:
		return "Blob"
	case KindOffsetsNarrow:
		return "OffsetsNarrow"
	case KindOffsetsWide:
		return "OffsetsWide"
	default:
		return "Unknown"
	}
}

const (
	ColumnTypeInteger     ColumnType = 0x0
	ColumnTypeBool        ColumnType = 0x1
	ColumnTypeString      ColumnType = 0x2
	ColumnTypeBinary      ColumnType = 0x4
	ColumnTypeTable       ColumnType = 0x5
	ColumnTypeMixed       ColumnType = 0x6
	ColumnTypeOldDateTime ColumnType = 0x7
	ColumnTypeTimestamp   ColumnType = 0x8
	ColumnTypeFloat       ColumnType = 0x9
	ColumnTypeDouble      ColumnType = 0xA
	ColumnTypeLink        ColumnType = 0xC
	ColumnTypeLinkList    ColumnType = 0xD

	// ColumnTypeUnknown is the sentinel for codes outside the table. It never collides with a nibble.
	ColumnTypeUnknown ColumnType = 0xFF
)

// ColumnTypeOf maps a 4-bit column code to its ColumnType, ColumnTypeUnknown if unrecognized.
func ColumnTypeOf(code uint8) ColumnType {
	switch ct := ColumnType(code); ct {
	case ColumnTypeInteger, ColumnTypeBool, ColumnTypeString, ColumnTypeBinary,
		ColumnTypeTable, ColumnTypeMixed, ColumnTypeOldDateTime, ColumnTypeTimestamp,
		ColumnTypeFloat, ColumnTypeDouble, ColumnTypeLink, ColumnTypeLinkList:
		return ct
	default:
		return ColumnTypeUnknown
	}
}

func (c ColumnType) String() string {
	switch c {
	case ColumnTypeInteger:
		return "Integer"
	case ColumnTypeBool:
		return "Bool"
	case ColumnTypeString:
		return "String"
	case ColumnTypeBinary:
		return "Binary"
	case ColumnTypeTable:
		return "Table"
	case ColumnTypeMixed:
		return "Mixed"
	case ColumnTypeOldDateTime:
		return "OldDateTime"
	case ColumnTypeTimestamp:
		return "Timestamp"
	case ColumnTypeFloat:
		return "Float"
	case ColumnTypeDouble:
		return "Double"
	case ColumnTypeLink:
		return "Link"
	case ColumnTypeLinkList:
		return "LinkList"
	default:
		return "Unknown"
	}
}

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionXZ   CompressionType = 0x5 // CompressionXZ represents xz (LZMA2) compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionXZ:
		return "XZ"
	default:
		return "Unknown"
	}
}

// Extension returns the file extension appended to compressed artifacts, "" for none.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	case CompressionXZ:
		return ".xz"
	default:
		return ""
	}
}

// ParseCompression parses a case-insensitive compression name.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "xz":
		return CompressionXZ, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}
