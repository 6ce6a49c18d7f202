// Package endian provides byte order utilities for reading the tagged-object file layout.
//
// The file stores every payload value and header offset little-endian, but the
// object count field is stored big-endian (it is the low half of a 24-bit
// big-endian size). Both orders are exposed through the same EndianEngine
// interface so decoders and test builders can be written against one type.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	root := engine.Uint64(buf[0:8])
//
//	count := endian.GetBigEndianEngine().Uint16(buf[6:8])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library. The read half is used by decoders; the append half is
// used to build synthetic file images in tests.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used for payloads and header offsets.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine used for the object count field.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Uint reads an unsigned integer of len(b) bytes using the given engine.
//
// Parameters:
//   - engine: Byte order to decode with
//   - b: Raw bytes, length must be 1, 2, 4 or 8
//
// Returns:
//   - uint64: Decoded value widened to 64 bits
//   - error: If len(b) is not a supported width
func Uint(engine EndianEngine, b []byte) (uint64, error) {
	switch len(b) {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(engine.Uint16(b)), nil
	case 4:
		return uint64(engine.Uint32(b)), nil
	case 8:
		return engine.Uint64(b), nil
	default:
		return 0, fmt.Errorf("unsupported integer width %d", len(b))
	}
}

// AppendUint appends v as an unsigned integer of the given width using the engine.
// Values wider than width are truncated to the low bytes.
func AppendUint(engine EndianEngine, dst []byte, v uint64, width int) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return engine.AppendUint16(dst, uint16(v)) //nolint:gosec
	case 4:
		return engine.AppendUint32(dst, uint32(v)) //nolint:gosec
	default:
		return engine.AppendUint64(dst, v)
	}
}
