// Package object decodes the tagged objects that make up a database file.
//
// Every object starts with an 8-byte header (see section.ObjectHeader) followed
// by a payload whose shape is selected by the type tag:
//
//	Tag        | Kind              | Payload
//	-----------|-------------------|------------------------------------------
//	0x01       | KindBool          | bit-vector running up to the next marker
//	0x04-0x07  | KindInt8..Int64   | count little-endian unsigned integers
//	0x0B, 0x0C | KindFloat/Double  | count IEEE-754 values
//	0x0D, 0x0E | KindString        | count NUL-terminated, NUL-padded strings
//	0x11       | KindBlob          | count raw bytes
//	0x45, 0x65 | KindOffsetsNarrow | count 2-byte offsets of other objects
//	0x46, 0x66 | KindOffsetsWide   | count 4-byte offsets of other objects
//
// Offsets read from the file are untrusted. All reads go through a view.View,
// so a bad offset yields errs.ErrOutOfBounds or errs.ErrSignatureMismatch
// instead of a panic, and nested resolution is guarded against reference
// cycles.
//
// # Decoding
//
//	d, err := object.NewDecoder(v, object.WithVisitor(tr))
//	obj, err := d.Decode(offset, true)
//	fmt.Println(obj.Value) // [[1, 2], ["a", "b"]]
//
// Column schemas use dedicated codecs, DecodeColumnTypes and
// DecodeColumnNames, because the generic tag at those positions is unreliable.
package object
