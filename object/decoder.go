package object

import (
	"fmt"

	"github.com/arloliu/realmrecover/endian"
	"github.com/arloliu/realmrecover/errs"
	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/internal/options"
	"github.com/arloliu/realmrecover/section"
	"github.com/arloliu/realmrecover/view"
)

// DefaultMaxDepth is the default limit on nested offset resolution.
const DefaultMaxDepth = 1024

// int32TimestampSentinel marks an Int32 array whose remaining values are Unix timestamps.
const int32TimestampSentinel = 0x7FFFFFFF

// Visitor receives every offset the decoder is asked to decode, including
// nested sub-offsets and offsets that fail validation.
type Visitor interface {
	Visit(offset uint64)
}

// NestedErrorHandler receives failures swallowed during nested resolution.
type NestedErrorHandler func(offset uint64, err error)

// TaggedObject is one decoded object.
type TaggedObject struct {
	Offset uint64            // offset of the object marker
	Tag    uint16            // raw type tag
	Count  uint16            // raw count field
	Kind   format.ObjectKind // payload kind selected by Tag
	Value  Value             // decoded payload
	End    uint64            // cursor position after the payload
}

// Decoder turns raw offsets into typed values.
//
// A Decoder borrows its view and keeps per-walk state: the visitor it reports
// offsets to and the stack of offsets currently being resolved. It is cheap to
// create, so one decoder is used per walk.
//
// Note: The Decoder is NOT thread-safe.
type Decoder struct {
	v        *view.View
	engine   endian.EndianEngine
	visitor  Visitor
	onNested NestedErrorHandler
	maxDepth int
	onStack  map[uint64]struct{}
}

// DecoderOption represents a functional option for configuring the Decoder.
type DecoderOption = options.Option[*Decoder]

// WithVisitor registers the visitor that records every decoded offset.
func WithVisitor(visitor Visitor) DecoderOption {
	return options.NoError(func(d *Decoder) {
		d.visitor = visitor
	})
}

// WithNestedErrorHandler registers a callback for failures swallowed during nested resolution.
func WithNestedErrorHandler(fn NestedErrorHandler) DecoderOption {
	return options.NoError(func(d *Decoder) {
		d.onNested = fn
	})
}

// WithMaxDepth limits how deep nested resolution may go before failing with ErrDepthExceeded.
func WithMaxDepth(depth int) DecoderOption {
	return options.New(func(d *Decoder) error {
		if depth < 1 {
			return fmt.Errorf("max depth must be positive, got %d", depth)
		}
		d.maxDepth = depth

		return nil
	})
}

// NewDecoder creates a Decoder over the view.
//
// Parameters:
//   - v: View over the whole file, borrowed for the decoder lifetime
//   - opts: Optional configuration
//
// Returns:
//   - *Decoder: New decoder
//   - error: Invalid option value
func NewDecoder(v *view.View, opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{
		v:        v,
		engine:   endian.GetLittleEndianEngine(),
		maxDepth: DefaultMaxDepth,
		onStack:  make(map[uint64]struct{}),
	}

	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// Decode decodes the object at offset.
//
// When resolveNested is false, offset-list objects decode to a List of raw Int
// offsets. When it is true, each sub-offset is itself decoded with
// resolveNested=true, all the way down, and its value appended; a sub-offset
// that fails to decode contributes nothing and its error is passed to the
// NestedErrorHandler.
//
// Parameters:
//   - offset: Absolute offset of the object marker, untrusted
//   - resolveNested: Whether to replace offsets by the values they reference
//
// Returns:
//   - TaggedObject: Decoded object
//   - error: ErrSignatureMismatch, ErrUnknownObjectType, ErrOutOfBounds,
//     ErrCyclicReference or ErrDepthExceeded
func (d *Decoder) Decode(offset uint64, resolveNested bool) (TaggedObject, error) {
	d.visit(offset)

	if err := d.enter(offset); err != nil {
		return TaggedObject{Offset: offset}, err
	}
	defer d.leave(offset)

	c := d.v.Cursor(offset)
	h, err := section.ReadObjectHeader(c)
	if err != nil {
		return TaggedObject{Offset: offset}, err
	}

	obj := TaggedObject{
		Offset: offset,
		Tag:    h.Tag,
		Count:  h.Count,
		Kind:   h.Kind(),
	}

	val, err := d.decodePayload(c, h, resolveNested)
	if err != nil {
		return obj, err
	}
	obj.Value = val
	obj.End = c.Pos()

	return obj, nil
}

// DecodeList decodes the object at offset and requires its value to be a List.
func (d *Decoder) DecodeList(offset uint64, resolveNested bool) (List, error) {
	obj, err := d.Decode(offset, resolveNested)
	if err != nil {
		return nil, err
	}

	list, ok := obj.Value.(List)
	if !ok {
		return nil, fmt.Errorf("%w: %s object decoded to a scalar", errs.ErrUnexpectedValue, obj.Kind)
	}

	return list, nil
}

// DecodeOffsets decodes the object at offset without resolution and returns its raw offsets.
func (d *Decoder) DecodeOffsets(offset uint64) ([]uint64, error) {
	list, err := d.DecodeList(offset, false)
	if err != nil {
		return nil, err
	}

	offsets, ok := list.Ints()
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of offsets", errs.ErrUnexpectedValue)
	}

	return offsets, nil
}

// ResolveAll decodes each offset with resolveNested=true and discards the values.
// It only serves reachability bookkeeping: every offset is still reported to the
// visitor, and failures go to the NestedErrorHandler.
func (d *Decoder) ResolveAll(offsets []uint64) {
	for _, off := range offsets {
		if _, err := d.Decode(off, true); err != nil {
			d.nestedError(off, err)
		}
	}
}

func (d *Decoder) decodePayload(c *view.Cursor, h section.ObjectHeader, resolveNested bool) (Value, error) {
	count := int(h.Count)

	switch h.Kind() {
	case format.KindBool:
		return d.decodeBool(c)
	case format.KindInt8:
		return d.decodeUints(c, count, 1)
	case format.KindInt16:
		return d.decodeUints(c, count, 2)
	case format.KindInt32:
		return d.decodeInt32(c, count)
	case format.KindInt64:
		return d.decodeUints(c, count, 8)
	case format.KindFloat:
		return d.decodeFloats(c, count)
	case format.KindDouble:
		return d.decodeDoubles(c, count)
	case format.KindString:
		return decodeStrings(c, count)
	case format.KindBlob:
		return decodeBlob(c, count)
	case format.KindOffsetsNarrow, format.KindOffsetsWide:
		return d.decodeOffsetList(c, count, h.Kind().OffsetWidth(), resolveNested)
	case format.KindUnknown:
		return nil, &errs.UnknownObjectTypeError{Tag: h.Tag}
	default:
		return nil, &errs.UnknownObjectTypeError{Tag: h.Tag}
	}
}

func (d *Decoder) decodeOffsetList(c *view.Cursor, count, width int, resolveNested bool) (Value, error) {
	raw, err := d.readUints(c, count, width)
	if err != nil {
		return nil, err
	}

	if !resolveNested {
		out := make(List, len(raw))
		for i, off := range raw {
			out[i] = Int(off)
		}

		return out, nil
	}

	out := make(List, 0, len(raw))
	for _, off := range raw {
		obj, err := d.Decode(off, true)
		if err != nil {
			d.nestedError(off, err)
			continue
		}
		out = append(out, obj.Value)
	}

	return out, nil
}

func (d *Decoder) visit(offset uint64) {
	if d.visitor != nil {
		d.visitor.Visit(offset)
	}
}

func (d *Decoder) nestedError(offset uint64, err error) {
	if d.onNested != nil {
		d.onNested(offset, err)
	}
}

func (d *Decoder) enter(offset uint64) error {
	if _, ok := d.onStack[offset]; ok {
		return fmt.Errorf("%w: offset 0x%x is already being resolved", errs.ErrCyclicReference, offset)
	}

	if len(d.onStack) >= d.maxDepth {
		return fmt.Errorf("%w: limit %d at offset 0x%x", errs.ErrDepthExceeded, d.maxDepth, offset)
	}
	d.onStack[offset] = struct{}{}

	return nil
}

func (d *Decoder) leave(offset uint64) {
	delete(d.onStack, offset)
}
