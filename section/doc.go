// Package section defines the fixed binary structures of the database file:
// the file header and the tagged-object header.
//
// # File Layout
//
//	┌─────────────────────────────────────────────────────────┐
//	│ File Header (24 bytes, fixed)                           │
//	│  - RootOffsetA (8 bytes, little-endian)                 │
//	│  - RootOffsetB (8 bytes, little-endian)                 │
//	│  - Magic (8 bytes): "T-DB" ... root flag                │
//	├─────────────────────────────────────────────────────────┤
//	│ Tagged objects (variable, anywhere in the file)         │
//	│  - Object Header (8 bytes)                              │
//	│  - Payload (layout depends on the tag)                  │
//	└─────────────────────────────────────────────────────────┘
//
// # File Header Format
//
//	Bytes  | Field        | Type    | Description
//	-------|--------------|---------|----------------------------------
//	0-7    | RootOffsetA  | uint64  | Offset of the first root object
//	8-15   | RootOffsetB  | uint64  | Offset of the second root object
//	16-23  | Magic        | [8]byte | "T-DB" prefix, last byte is the root flag
//
// A root flag of 0x00 selects RootOffsetA as the active root and 0x01 selects
// RootOffsetB. Any other value is rejected by Validate.
//
// # Object Header Format
//
//	Bytes  | Field   | Type    | Description
//	-------|---------|---------|----------------------------------
//	0-3    | Marker  | [4]byte | Always "AAAA"
//	4-5    | Tag     | uint16  | Payload type, little-endian
//	6-7    | Count   | uint16  | Element count, big-endian
//
// Offsets stored in the file are untrusted. ParseFileHeader and
// ReadObjectHeader bounds-check every read against the view and report
// errs.ErrOutOfBounds instead of panicking.
//
// # Usage Examples
//
//	hdr, err := section.ParseFileHeader(v)
//	if err != nil {
//	    return err
//	}
//	root := hdr.ActiveRootOffset()
//
//	oh, err := section.ReadObjectHeader(v.Cursor(root))
package section
