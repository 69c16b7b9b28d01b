// Package errors classifies the failures of a jsontok run and renders them
// for the terminal.
package errors

import (
	"errors"
	"fmt"

	"github.com/wuxiang/jsontok/internal/tokener"
)

// Sentinel causes wrapped by AppError
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrInputTooLarge   = errors.New("input exceeds the configured size limit")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// ErrorType says which stage of a run failed
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeFormat  ErrorType = "format"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// stageLabels prefixes user-facing messages per stage.
var stageLabels = map[ErrorType]string{
	ErrorTypeInput:   "Input error",
	ErrorTypeParsing: "JSON parsing error",
	ErrorTypeConfig:  "Configuration error",
	ErrorTypeFormat:  "Formatting error",
	ErrorTypeOutput:  "Output error",
}

// AppError is a failure of one stage, with the cause it wraps
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same stage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(typ ErrorType, message string, err error) *AppError {
	return &AppError{Type: typ, Message: message, Err: err}
}

// NewInputError reports a failure to read input
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError reports input that is not a single valid value. err is
// usually a *tokener.SyntaxError or wraps one.
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewConfigError reports a config file or flag that cannot be used
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewFormatError reports a value that cannot be rendered
func NewFormatError(message string, err error) *AppError {
	return newError(ErrorTypeFormat, message, err)
}

// NewOutputError reports a failure to write the result
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// hints are tried in order for errors that carry no stage.
var hints = []struct {
	cause error
	text  string
}{
	{ErrEmptyInput, "The input is empty. Please provide valid JSON data."},
	{ErrInvalidJSON, "The input contains invalid JSON. Please check your JSON syntax."},
	{ErrInputTooLarge, "The input is too large. Raise input.max_size or pass --max-size."},
	{ErrFileNotFound, "The specified file could not be found. Please check the file path."},
	{ErrFileEmpty, "The specified file is empty. Please provide a file with valid JSON content."},
	{ErrNoInput, "No input provided. Please specify a file with -i or pipe JSON data to stdin."},
	{ErrInvalidFilePath, "Invalid file path. Please provide a valid file path."},
	{ErrInvalidConfig, "The configuration is invalid. Please check your .jsontok.yml file."},
}

// UserFriendlyError renders err for the terminal. Syntax errors are shown
// by kind and byte offset rather than by their wrapped chain.
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		label, ok := stageLabels[appErr.Type]
		if !ok {
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
		if appErr.Type != ErrorTypeParsing || appErr.Err == nil {
			return fmt.Sprintf("%s: %s", label, appErr.Message)
		}
		if detail, ok := syntaxDetail(appErr.Err); ok {
			return fmt.Sprintf("%s: %s: %s", label, appErr.Message, detail)
		}
		return fmt.Sprintf("%s: %s: %v", label, appErr.Message, appErr.Err)
	}

	if detail, ok := syntaxDetail(err); ok {
		return fmt.Sprintf("Error: %s", detail)
	}
	for _, h := range hints {
		if errors.Is(err, h.cause) {
			return "Error: " + h.text
		}
	}
	return fmt.Sprintf("Error: %v", err)
}

func syntaxDetail(err error) (string, bool) {
	var se *tokener.SyntaxError
	if !errors.As(err, &se) {
		return "", false
	}
	return fmt.Sprintf("%s (byte %d)", se.Kind, se.Offset), true
}
