// Package escape implements the string escape codec used by the value
// serializer and the tokener.
package escape

import (
	"errors"
	"fmt"
)

const hexDigits = "0123456789abcdef"

// ErrInvalidEscape is returned by Unescape for a malformed escape sequence.
var ErrInvalidEscape = errors.New("invalid string sequence")

// Escape appends src to dst, escaping control characters, quotes, the
// backslash and the solidus. NUL bytes are dropped.
func Escape(dst []byte, src string) []byte {
	start := 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c >= 0x20 && c != '"' && c != '\\' && c != '/' {
			continue
		}
		dst = append(dst, src[start:i]...)
		start = i + 1
		switch c {
		case 0:
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '"', '\\', '/':
			dst = append(dst, '\\', c)
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
	}
	return append(dst, src[start:]...)
}

// Quote appends src to dst as a double-quoted, escaped string.
func Quote(dst []byte, src string) []byte {
	dst = append(dst, '"')
	dst = Escape(dst, src)
	return append(dst, '"')
}

// HexValue returns the value of the hex digit c. Upper and lower case
// digits decode alike.
func HexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Unescaped maps the character following a backslash to the byte it stands
// for. 'u' is not handled here; it introduces four hex digits.
func Unescaped(c byte) (byte, bool) {
	switch c {
	case '"', '\\', '/', '\'':
		return c, true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	}
	return 0, false
}

// AppendCodePoint appends the UTF-8 encoding of a 16-bit code point. Code
// points outside the Basic Multilingual Plane and surrogate pairs are not
// combined; each unit is encoded on its own.
func AppendCodePoint(dst []byte, cp uint16) []byte {
	switch {
	case cp < 0x80:
		return append(dst, byte(cp))
	case cp < 0x800:
		return append(dst, 0xc0|byte(cp>>6), 0x80|byte(cp&0x3f))
	default:
		return append(dst, 0xe0|byte(cp>>12), 0x80|byte((cp>>6)&0x3f), 0x80|byte(cp&0x3f))
	}
}

// Unescape decodes the body of an escaped string, the inverse of Escape.
func Unescape(src string) (string, error) {
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '\\' {
			dst = append(dst, c)
			continue
		}
		i++
		if i >= len(src) {
			return "", fmt.Errorf("%w: trailing backslash", ErrInvalidEscape)
		}
		if src[i] != 'u' {
			b, ok := Unescaped(src[i])
			if !ok {
				return "", fmt.Errorf("%w: \\%c at %d", ErrInvalidEscape, src[i], i-1)
			}
			dst = append(dst, b)
			continue
		}
		if i+4 >= len(src) {
			return "", fmt.Errorf("%w: short unicode escape at %d", ErrInvalidEscape, i-1)
		}
		var cp uint16
		for _, h := range []byte(src[i+1 : i+5]) {
			v, ok := HexValue(h)
			if !ok {
				return "", fmt.Errorf("%w: bad hex digit %q at %d", ErrInvalidEscape, h, i-1)
			}
			cp = cp<<4 | uint16(v)
		}
		dst = AppendCodePoint(dst, cp)
		i += 4
	}
	return string(dst), nil
}
