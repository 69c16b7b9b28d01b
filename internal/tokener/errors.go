package tokener

import (
	"errors"
	"fmt"
)

// ErrContinue is returned by Parse when the input ends before the top-level
// value is complete. It is not a failure: call Parse again with the same
// input followed by more data.
var ErrContinue = errors.New("tokener: more input needed")

// ErrorKind classifies a syntax error.
type ErrorKind int

const (
	DepthExceeded ErrorKind = iota + 1
	UnexpectedEOF
	UnexpectedCharacter
	InvalidNull
	InvalidBoolean
	InvalidNumber
	InvalidArray
	InvalidObjectKey
	InvalidObjectKeySeparator
	InvalidObjectValueSeparator
	InvalidStringEscape
	InvalidComment
)

var kindMessages = map[ErrorKind]string{
	DepthExceeded:               "nesting too deep",
	UnexpectedEOF:               "unexpected end of data",
	UnexpectedCharacter:         "unexpected character",
	InvalidNull:                 "null expected",
	InvalidBoolean:              "boolean expected",
	InvalidNumber:               "number expected",
	InvalidArray:                "array value separator ',' expected",
	InvalidObjectKey:            "quoted object property name expected",
	InvalidObjectKeySeparator:   "object property name separator ':' expected",
	InvalidObjectValueSeparator: "object value separator ',' expected",
	InvalidStringEscape:         "invalid string sequence",
	InvalidComment:              "expected comment",
}

func (k ErrorKind) String() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// SyntaxError describes where and why parsing stopped.
type SyntaxError struct {
	Kind ErrorKind
	// Offset is the byte offset of the offending character in the input.
	Offset int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid input at byte %d: %s", e.Offset, e.Kind)
}

// Is matches any *SyntaxError of the same kind, whatever its offset.
func (e *SyntaxError) Is(target error) bool {
	t, ok := target.(*SyntaxError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
