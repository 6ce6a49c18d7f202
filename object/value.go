package object

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a node of a decoded object tree.
//
// The set of implementations is closed: List for nested sequences and the
// scalar leaves Bool, Int, Float, Double, Text and Timestamp.
type Value interface {
	String() string
	isValue()
}

type (
	// List is an ordered sequence of values; offset lists and every numeric array decode to a List.
	List []Value
	// Bool is one bit of a boolean bit-vector.
	Bool bool
	// Int is an unsigned integer of any stored width. Raw offsets are also Ints.
	Int uint64
	// Float is an IEEE-754 single precision value.
	Float float32
	// Double is an IEEE-754 double precision value.
	Double float64
	// Text is a raw byte string. It is not guaranteed to be valid UTF-8.
	Text string
	// Timestamp is a Unix-seconds value recovered through the Int32 sentinel heuristic.
	Timestamp struct{ time.Time }
)

func (List) isValue()      {}
func (Bool) isValue()      {}
func (Int) isValue()       {}
func (Float) isValue()     {}
func (Double) isValue()    {}
func (Text) isValue()      {}
func (Timestamp) isValue() {}

// NewTimestamp builds a UTC Timestamp from Unix seconds.
func NewTimestamp(sec int64) Timestamp {
	return Timestamp{time.Unix(sec, 0).UTC()}
}

func (l List) String() string {
	var sb strings.Builder
	l.writeTo(&sb)

	return sb.String()
}

func (l List) writeTo(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			sb.WriteString(", ")
		}
		if nested, ok := v.(List); ok {
			nested.writeTo(sb)
		} else if v == nil {
			sb.WriteString("null")
		} else {
			sb.WriteString(v.String())
		}
	}
	sb.WriteByte(']')
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (i Int) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

func (f Float) String() string {
	return formatFloat(float64(f), 32)
}

func (d Double) String() string {
	return formatFloat(float64(d), 64)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}

	return strconv.FormatFloat(f, 'g', -1, bits)
}

// String renders the text quoted, escaping non-printable bytes.
func (t Text) String() string {
	return strconv.Quote(string(t))
}

// String renders the timestamp as ISO-8601 (RFC 3339) in UTC.
func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339)
}

// Ints converts a List of Int values into raw offsets.
// ok is false if any element is not an Int.
func (l List) Ints() (offsets []uint64, ok bool) {
	offsets = make([]uint64, len(l))
	for i, v := range l {
		n, isInt := v.(Int)
		if !isInt {
			return nil, false
		}
		offsets[i] = uint64(n)
	}

	return offsets, true
}

// Strings converts a List of Text values into Go strings.
// ok is false if any element is not Text.
func (l List) Strings() (strs []string, ok bool) {
	strs = make([]string, len(l))
	for i, v := range l {
		s, isText := v.(Text)
		if !isText {
			return nil, false
		}
		strs[i] = string(s)
	}

	return strs, true
}
