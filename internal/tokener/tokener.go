// Package tokener implements a resumable, depth-bounded JSON parser. It
// keeps an explicit stack of frames instead of recursing, so nesting is
// bounded by MaxDepth and parsing can stop at any byte and pick up again
// when more input arrives.
//
// Besides strict JSON it accepts /* block */ and // line comments,
// single-quoted strings, case-insensitive null/true/false and a trailing
// comma before a closing bracket or brace.
package tokener

import (
	"bytes"

	"github.com/wuxiang/jsontok/internal/escape"
	"github.com/wuxiang/jsontok/internal/numconv"
	"github.com/wuxiang/jsontok/internal/value"
)

// MaxDepth is the number of frames on the stack. The top-level value uses
// the first one, so at most MaxDepth containers can be nested.
const MaxDepth = 32

type state uint8

const (
	stateEatWS state = iota
	stateStart
	stateFinish
	stateNull
	stateCommentStart
	stateComment
	stateCommentEOL
	stateCommentEnd
	stateString
	stateStringEscape
	stateEscapeUnicode
	stateBoolean
	stateNumber
	stateArray
	stateArrayAdd
	stateArraySep
	stateObjectFieldStart
	stateObjectField
	stateObjectFieldEnd
	stateObjectValue
	stateObjectValueAdd
	stateObjectSep
)

// frame is the parse context of one nesting level.
type frame struct {
	state state
	// saved is the state to return to once whitespace and comments are
	// eaten.
	saved state
	// current is owned by the frame until it is handed to the parent.
	current *value.Value
	// field is the pending member name of an object frame.
	field string
}

func (f *frame) reset() {
	f.state = stateEatWS
	f.saved = stateStart
	f.current = nil
	f.field = ""
}

// Option configures a Parser.
type Option func(*Parser)

// WithSentinel makes the parser stop at the first NUL byte of its input,
// for sources whose length is not known up front. Reaching the NUL before
// the value is complete is an UnexpectedEOF error; input without a NUL is
// treated as unfinished.
func WithSentinel() Option {
	return func(p *Parser) {
		p.sentinel = true
	}
}

// Parser turns JSON text into a value tree.
//
// Parse may be called repeatedly while it returns ErrContinue, each time
// with all of the input seen so far; the parser skips the bytes it already
// consumed. After a value or a *SyntaxError is returned the Parser is reset
// and may be reused for a new input.
//
// A Parser must not be used from concurrent goroutines. Use one Parser per
// input instead.
type Parser struct {
	stack    [MaxDepth]frame
	depth    int
	offset   int
	sentinel bool

	// child is a completed value popped from depth+1, waiting to be added
	// to the container at depth.
	child *value.Value

	// Scratch of the token being scanned; it survives ErrContinue.
	buf     []byte
	quote   byte
	literal string
	pos     int
	ucs     uint16
	start   int
}

// New returns a Parser ready for a new input.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset drops any partial parse.
func (p *Parser) Reset() {
	for i := p.depth; i >= 0; i-- {
		p.stack[i].reset()
	}
	p.depth = 0
	p.offset = 0
	p.child = nil
	p.buf = p.buf[:0]
	p.quote = 0
	p.literal = ""
	p.pos = 0
	p.ucs = 0
	p.start = 0
}

// Offset returns the number of input bytes consumed by the parse in
// progress.
func (p *Parser) Offset() int { return p.offset }

// Depth returns the current nesting level, zero at the top level.
func (p *Parser) Depth() int { return p.depth }

// Parse consumes data and returns the top-level value once it is complete
// and followed only by whitespace or comments. The end of data is the end
// of the input: a top-level number or literal running up to it is
// finished. When the value still needs more input Parse returns
// ErrContinue; any other error is a *SyntaxError.
func (p *Parser) Parse(data []byte) (*value.Value, error) {
	return p.run(data, true)
}

// Advance consumes data without treating its end as the end of the input,
// so a trailing number or literal stays open. It reports ErrContinue when
// all of data was consumed, or a *SyntaxError. Call Parse with the complete
// input to obtain the value.
func (p *Parser) Advance(data []byte) error {
	_, err := p.run(data, false)
	return err
}

func (p *Parser) run(data []byte, final bool) (*value.Value, error) {
	end := len(data)
	if p.sentinel {
		i := bytes.IndexByte(data, 0)
		if i >= 0 {
			end = i
		}
		final = final && i >= 0
	}
	if end < p.offset {
		p.Reset()
	}
	if err := p.scan(data[:end]); err != nil {
		return nil, err
	}
	p.offset = end
	if !final {
		return nil, ErrContinue
	}

	f := &p.stack[p.depth]
	if p.depth == 0 {
		if err := p.endToken(f); err != nil {
			return nil, err
		}
	}
	if p.depth == 0 && f.saved == stateFinish && (f.state == stateEatWS || f.state == stateCommentEOL) {
		root := f.current
		p.Reset()
		return root, nil
	}
	if p.sentinel {
		return nil, p.fail(UnexpectedEOF, end)
	}
	return nil, ErrContinue
}

// ParseBytes parses a complete input. Input that ends before the value is
// complete is an UnexpectedEOF error.
func ParseBytes(data []byte) (*value.Value, error) {
	v, err := New().Parse(data)
	if err == ErrContinue {
		return nil, &SyntaxError{Kind: UnexpectedEOF, Offset: len(data)}
	}
	return v, err
}

// fail abandons the parse. Every frame is cleared so no node of the failed
// attempt stays reachable from the Parser.
func (p *Parser) fail(kind ErrorKind, at int) error {
	p.Reset()
	return &SyntaxError{Kind: kind, Offset: at}
}

// push opens a child frame for the next value of the container in f.
func (p *Parser) push(f *frame, next state, at int) error {
	if p.depth >= MaxDepth-1 {
		return p.fail(DepthExceeded, at)
	}
	f.state = next
	p.depth++
	p.stack[p.depth].reset()
	return nil
}

func (p *Parser) scan(data []byte) error {
	i := p.offset
	for i < len(data) {
		c := data[i]
		f := &p.stack[p.depth]

		// Cases that do not advance i re-examine c in the new state.
		switch f.state {
		case stateEatWS:
			if isSpace(c) {
				i++
				continue
			}
			if c == '/' {
				f.state = stateCommentStart
				i++
				continue
			}
			f.state = f.saved

		case stateStart:
			p.start = i
			switch {
			case c == '{':
				f.current = value.NewObject()
				f.state, f.saved = stateEatWS, stateObjectFieldStart
				i++
			case c == '[':
				f.current = value.NewArray()
				f.state, f.saved = stateEatWS, stateArray
				i++
			case c == 'n' || c == 'N':
				p.literal, p.pos = "null", 0
				f.state = stateNull
			case c == 't' || c == 'T':
				p.literal, p.pos = "true", 0
				f.state = stateBoolean
			case c == 'f' || c == 'F':
				p.literal, p.pos = "false", 0
				f.state = stateBoolean
			case c == '"' || c == '\'':
				p.quote = c
				p.buf = p.buf[:0]
				f.state = stateString
				i++
			case c == '-' || (c >= '0' && c <= '9'):
				p.buf = p.buf[:0]
				f.state = stateNumber
			default:
				return p.fail(UnexpectedCharacter, i)
			}

		case stateFinish:
			if p.depth == 0 {
				return p.fail(UnexpectedCharacter, i)
			}
			p.child = f.current
			f.reset()
			p.depth--

		case stateNull, stateBoolean:
			if p.pos == len(p.literal) {
				p.endLiteral(f)
				continue
			}
			if toLower(c) != p.literal[p.pos] {
				if f.state == stateNull {
					return p.fail(InvalidNull, i)
				}
				return p.fail(InvalidBoolean, i)
			}
			p.pos++
			i++

		case stateCommentStart:
			switch c {
			case '*':
				f.state = stateComment
			case '/':
				f.state = stateCommentEOL
			default:
				return p.fail(InvalidComment, i)
			}
			i++

		case stateComment:
			j := bytes.IndexByte(data[i:], '*')
			if j < 0 {
				i = len(data)
				continue
			}
			f.state = stateCommentEnd
			i += j + 1

		case stateCommentEnd:
			switch c {
			case '/':
				f.state = stateEatWS
			case '*':
			default:
				f.state = stateComment
			}
			i++

		case stateCommentEOL:
			j := bytes.IndexByte(data[i:], '\n')
			if j < 0 {
				i = len(data)
				continue
			}
			f.state = stateEatWS
			i += j

		case stateString, stateObjectField:
			j := i
			for j < len(data) && data[j] != p.quote && data[j] != '\\' {
				j++
			}
			p.buf = append(p.buf, data[i:j]...)
			if j == len(data) {
				i = j
				continue
			}
			switch {
			case data[j] == '\\':
				f.saved = f.state
				f.state = stateStringEscape
			case f.state == stateString:
				f.current = value.NewString(string(p.buf))
				f.state, f.saved = stateEatWS, stateFinish
			default:
				f.field = string(p.buf)
				f.state, f.saved = stateEatWS, stateObjectFieldEnd
			}
			i = j + 1

		case stateStringEscape:
			if c == 'u' {
				p.ucs, p.pos = 0, 0
				f.state = stateEscapeUnicode
				i++
				continue
			}
			b, ok := escape.Unescaped(c)
			if !ok {
				return p.fail(InvalidStringEscape, i)
			}
			p.buf = append(p.buf, b)
			f.state = f.saved
			i++

		case stateEscapeUnicode:
			h, ok := escape.HexValue(c)
			if !ok {
				return p.fail(InvalidStringEscape, i)
			}
			p.ucs = p.ucs<<4 | uint16(h)
			p.pos++
			if p.pos == 4 {
				p.buf = escape.AppendCodePoint(p.buf, p.ucs)
				f.state = f.saved
			}
			i++

		case stateNumber:
			j := i
			for j < len(data) && isNumberChar(data[j]) {
				j++
			}
			p.buf = append(p.buf, data[i:j]...)
			i = j
			if j == len(data) {
				continue
			}
			if err := p.endNumber(f); err != nil {
				return err
			}

		case stateArray:
			if c == ']' {
				f.state, f.saved = stateEatWS, stateFinish
				i++
				continue
			}
			if err := p.push(f, stateArrayAdd, i); err != nil {
				return err
			}

		case stateArrayAdd:
			f.current.PushBack(p.child)
			p.child = nil
			f.state, f.saved = stateEatWS, stateArraySep

		case stateArraySep:
			switch c {
			case ']':
				f.state, f.saved = stateEatWS, stateFinish
			case ',':
				f.state, f.saved = stateEatWS, stateArray
			default:
				return p.fail(InvalidArray, i)
			}
			i++

		case stateObjectFieldStart:
			switch c {
			case '}':
				f.state, f.saved = stateEatWS, stateFinish
			case '"', '\'':
				p.quote = c
				p.buf = p.buf[:0]
				f.state = stateObjectField
			default:
				return p.fail(InvalidObjectKey, i)
			}
			i++

		case stateObjectFieldEnd:
			if c != ':' {
				return p.fail(InvalidObjectKeySeparator, i)
			}
			f.state, f.saved = stateEatWS, stateObjectValue
			i++

		case stateObjectValue:
			if err := p.push(f, stateObjectValueAdd, i); err != nil {
				return err
			}

		case stateObjectValueAdd:
			f.current.Add(f.field, p.child)
			p.child = nil
			f.field = ""
			f.state, f.saved = stateEatWS, stateObjectSep

		case stateObjectSep:
			switch c {
			case '}':
				f.state, f.saved = stateEatWS, stateFinish
			case ',':
				f.state, f.saved = stateEatWS, stateObjectFieldStart
			default:
				return p.fail(InvalidObjectValueSeparator, i)
			}
			i++
		}
	}
	return nil
}

// endToken finishes a top-level number or literal that runs up to the end
// of the input.
func (p *Parser) endToken(f *frame) error {
	switch f.state {
	case stateNumber:
		return p.endNumber(f)
	case stateNull, stateBoolean:
		if p.pos == len(p.literal) {
			p.endLiteral(f)
		}
	}
	return nil
}

func (p *Parser) endLiteral(f *frame) {
	switch p.literal {
	case "true":
		f.current = value.NewBoolean(true)
	case "false":
		f.current = value.NewBoolean(false)
	default:
		f.current = value.NewNull()
	}
	f.state, f.saved = stateEatWS, stateFinish
}

func (p *Parser) endNumber(f *frame) error {
	text := string(p.buf)
	if numconv.IsDouble(text) {
		d, err := numconv.ParseFloat(text)
		if err != nil {
			return p.fail(InvalidNumber, p.start)
		}
		f.current = value.NewDouble(d)
	} else {
		n, err := numconv.ParseInt(text)
		if err != nil {
			return p.fail(InvalidNumber, p.start)
		}
		f.current = value.NewInteger(n)
	}
	f.state, f.saved = stateEatWS, stateFinish
	return nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isNumberChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '+' || c == '-' || c == 'e' || c == 'E':
		return true
	}
	return false
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
