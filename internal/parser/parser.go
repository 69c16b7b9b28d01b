package parser

import (
	"bytes"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/wuxiang/jsontok/internal/errors" // Custom errors package
	"github.com/wuxiang/jsontok/internal/tokener"
	"github.com/wuxiang/jsontok/internal/value"
)

// DefaultChunkSize is the number of bytes read from the source between two
// engine invocations.
const DefaultChunkSize = 32 * 1024

type options struct {
	sentinel  bool
	chunkSize int
	maxSize   int64
	logger    log.Logger
}

// Option configures Parse.
type Option func(*options)

// WithSentinel stops reading at the first NUL byte of the source.
func WithSentinel() Option {
	return func(o *options) { o.sentinel = true }
}

// WithChunkSize sets the read size. Values below one fall back to
// DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithMaxSize bounds the total number of bytes read. Zero means unlimited.
func WithMaxSize(n int64) Option {
	return func(o *options) { o.maxSize = n }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Parse reads a single JSON value from reader. The source is consumed in
// chunks and the engine is resumed after every chunk, so a syntax error
// stops reading early.
func Parse(reader io.Reader, opts ...Option) (*value.Value, error) {
	o := options{chunkSize: DefaultChunkSize, logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	var engineOpts []tokener.Option
	if o.sentinel {
		engineOpts = append(engineOpts, tokener.WithSentinel())
	}
	p := tokener.New(engineOpts...)

	var buf []byte
	chunk := make([]byte, o.chunkSize)
	for {
		n, readErr := reader.Read(chunk)
		if n > 0 {
			if o.maxSize > 0 && int64(len(buf)+n) > o.maxSize {
				return nil, errors.NewInputError(
					fmt.Sprintf("input is larger than %s", humanize.IBytes(uint64(o.maxSize))),
					errors.ErrInputTooLarge,
				)
			}
			buf = append(buf, chunk[:n]...)
			if err := p.Advance(buf); !stderrors.Is(err, tokener.ErrContinue) {
				return nil, syntaxError(buf, err)
			}
			level.Debug(o.logger).Log("msg", "chunk consumed", "bytes", n, "offset", p.Offset(), "depth", p.Depth())
			if o.sentinel && bytes.IndexByte(chunk[:n], 0) >= 0 {
				break
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, errors.NewInputError("failed to read input", readErr)
		}
	}

	body, input := buf, buf
	if o.sentinel {
		if i := bytes.IndexByte(body, 0); i >= 0 {
			body = body[:i]
		} else {
			// The source ended without a NUL; its end terminates the input.
			input = append(buf, 0)
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	root, err := p.Parse(input)
	if stderrors.Is(err, tokener.ErrContinue) {
		err = &tokener.SyntaxError{Kind: tokener.UnexpectedEOF, Offset: len(buf)}
	}
	if err != nil {
		return nil, syntaxError(buf, err)
	}
	level.Debug(o.logger).Log("msg", "value complete", "kind", root.Kind(), "bytes", humanize.IBytes(uint64(len(body))))
	return root, nil
}

func syntaxError(data []byte, err error) error {
	var se *tokener.SyntaxError
	if !stderrors.As(err, &se) {
		return errors.NewParsingError("failed to parse JSON", err)
	}
	line, col := Position(data, se.Offset)
	return errors.NewParsingError(
		fmt.Sprintf("JSON syntax error at line %d, column %d", line, col),
		fmt.Errorf("%w: %w", errors.ErrInvalidJSON, se),
	)
}

// Position converts a byte offset into a 1-based line and column.
func Position(data []byte, offset int) (line, col int) {
	if offset > len(data) {
		offset = len(data)
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	col = offset - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

// ParseString parses JSON from a string
func ParseString(jsonString string, opts ...Option) (*value.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString), opts...)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string, opts ...Option) (*value.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file, opts...)
}
