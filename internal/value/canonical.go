package value

import (
	"github.com/wuxiang/jsontok/internal/escape"
	"github.com/wuxiang/jsontok/internal/numconv"
)

// String returns the canonical text of v.
func (v *Value) String() string {
	return string(v.AppendCanonical(nil))
}

// AppendCanonical appends the canonical text of v to dst. Arrays render as
// "[ a, b ]" and objects as `{ "k": v }`, with "[ ]" and "{ }" when empty.
func (v *Value) AppendCanonical(dst []byte) []byte {
	switch v.Kind() {
	case Boolean:
		if v.b {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case Integer:
		return append(dst, numconv.FormatInt(v.i)...)
	case Double:
		return append(dst, numconv.FormatFloat(v.f)...)
	case String:
		return escape.Quote(dst, v.s)
	case Array:
		dst = append(dst, '[')
		for i, e := range v.elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, ' ')
			dst = e.AppendCanonical(dst)
		}
		return append(dst, " ]"...)
	case Object:
		dst = append(dst, '{')
		for i, m := range v.members {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, ' ')
			dst = escape.Quote(dst, m.Key)
			dst = append(dst, ": "...)
			dst = m.Value.AppendCanonical(dst)
		}
		return append(dst, " }"...)
	}
	return append(dst, "null"...)
}

// Bool returns v as a boolean: numbers are true when non-zero and strings
// when non-empty. Null and containers are false.
func (v *Value) Bool() bool {
	switch v.Kind() {
	case Boolean:
		return v.b
	case Integer:
		return v.i != 0
	case Double:
		return v.f != 0
	case String:
		return v.s != ""
	}
	return false
}

// Int returns v as an integer. Doubles are truncated, booleans map to 0
// and 1 and strings are parsed; anything else, including an unparsable
// string, is 0.
func (v *Value) Int() int64 {
	switch v.Kind() {
	case Boolean:
		if v.b {
			return 1
		}
	case Integer:
		return v.i
	case Double:
		return int64(v.f)
	case String:
		if numconv.IsDouble(v.s) {
			f, _ := numconv.ParseFloat(v.s)
			return int64(f)
		}
		i, _ := numconv.ParseInt(v.s)
		return i
	}
	return 0
}

// Float returns v as a float with the same conversions as Int.
func (v *Value) Float() float64 {
	switch v.Kind() {
	case Boolean:
		if v.b {
			return 1
		}
	case Integer:
		return float64(v.i)
	case Double:
		return v.f
	case String:
		f, _ := numconv.ParseFloat(v.s)
		return f
	}
	return 0
}

// Text returns the raw bytes of a string, and the canonical text of any
// other kind.
func (v *Value) Text() string {
	if v.Kind() == String {
		return v.s
	}
	return v.String()
}
