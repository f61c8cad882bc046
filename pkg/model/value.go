// pkg/model/value.go
package model

import (
	"math"
	"strconv"
)

type valueTag uint8

const (
	tagMissing valueTag = iota
	tagInteger
	tagFloat
	tagText
)

// Value is a single cell: an integer, a float, a text or missing.
// The zero Value is missing.
type Value struct {
	tag valueTag
	i   int64
	f   float64
	s   string
}

// Missing returns the missing value
func Missing() Value {
	return Value{}
}

// Int wraps an integer
func Int(v int64) Value {
	return Value{tag: tagInteger, i: v}
}

// Float wraps a float. NaN becomes missing.
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{tag: tagFloat, f: v}
}

// Text wraps a string
func Text(s string) Value {
	return Value{tag: tagText, s: s}
}

// IsMissing reports whether the cell holds no value
func (v Value) IsMissing() bool {
	return v.tag == tagMissing
}

// Kind returns the kind of the held value, KindUnknown when missing
func (v Value) Kind() Kind {
	switch v.tag {
	case tagInteger:
		return KindInteger
	case tagFloat:
		return KindFloat
	case tagText:
		return KindText
	default:
		return KindUnknown
	}
}

// Int64 returns the integer payload
func (v Value) Int64() int64 { return v.i }

// Float64 returns the float payload; integers are widened
func (v Value) Float64() float64 {
	if v.tag == tagInteger {
		return float64(v.i)
	}
	if v.tag == tagMissing {
		return math.NaN()
	}
	return v.f
}

// Str returns the text payload
func (v Value) Str() string { return v.s }

// Interface returns the value as a database/sql argument, nil when missing
func (v Value) Interface() interface{} {
	switch v.tag {
	case tagInteger:
		return v.i
	case tagFloat:
		return v.f
	case tagText:
		return v.s
	default:
		return nil
	}
}

// String returns the plain (unquoted) form of the value
func (v Value) String() string {
	switch v.tag {
	case tagInteger:
		return strconv.FormatInt(v.i, 10)
	case tagFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case tagText:
		return v.s
	default:
		return ""
	}
}
