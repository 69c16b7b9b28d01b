package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/iancoleman/strcase"

	"github.com/wuxiang/jsontok/internal/errors"
	"github.com/wuxiang/jsontok/internal/value"
)

// Mode selects the text form of the output
type Mode string

const (
	// ModeCanonical renders "[ a, b ]" and `{ "k": v }` with the solidus escaped.
	ModeCanonical Mode = "canonical"
	// ModeCompact renders strict JSON without insignificant whitespace.
	ModeCompact Mode = "compact"
	// ModePretty renders strict JSON indented by two spaces.
	ModePretty Mode = "pretty"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeCanonical, ModeCompact, ModePretty:
		return m, nil
	}
	return "", fmt.Errorf("unknown output mode %q", s)
}

// KeyCase selects how object keys are rewritten
type KeyCase string

const (
	KeepCase       KeyCase = ""
	CamelCase      KeyCase = "camel"
	LowerCamelCase KeyCase = "lower-camel"
	SnakeCase      KeyCase = "snake"
	KebabCase      KeyCase = "kebab"
)

// ParseKeyCase validates a key case name. "keep" and the empty string both
// leave keys untouched.
func ParseKeyCase(s string) (KeyCase, error) {
	switch c := KeyCase(s); c {
	case KeepCase, CamelCase, LowerCamelCase, SnakeCase, KebabCase:
		return c, nil
	case "keep":
		return KeepCase, nil
	}
	return "", fmt.Errorf("unknown key case %q", s)
}

func (c KeyCase) apply(key string) string {
	switch c {
	case CamelCase:
		return strcase.ToCamel(key)
	case LowerCamelCase:
		return strcase.ToLowerCamel(key)
	case SnakeCase:
		return strcase.ToSnake(key)
	case KebabCase:
		return strcase.ToKebab(key)
	}
	return key
}

// Rename rewrites a key and reports whether it applied. The first Rename
// that applies wins over the key case.
type Rename func(key string) (string, bool)

// Options configures a Formatter
type Options struct {
	Mode    Mode
	KeyCase KeyCase
	Renames []Rename
}

// Formatter renders value trees as text
type Formatter struct {
	opts Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts Options) *Formatter {
	if opts.Mode == "" {
		opts.Mode = ModeCanonical
	}
	if opts.KeyCase == "keep" {
		opts.KeyCase = KeepCase
	}
	return &Formatter{opts: opts}
}

// Format renders v without a trailing newline. v itself is never modified;
// key rewrites are applied to a copy.
func (f *Formatter) Format(v *value.Value) (string, error) {
	v = f.Transform(v)

	switch f.opts.Mode {
	case ModeCanonical:
		return v.String(), nil
	case ModeCompact, ModePretty:
		var buf bytes.Buffer
		if err := f.encode(&buf, v); err != nil {
			return "", err
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	}
	return "", errors.NewFormatError(fmt.Sprintf("unknown output mode %q", f.opts.Mode), nil)
}

// Write renders v to w followed by a newline
func (f *Formatter) Write(w io.Writer, v *value.Value) error {
	out, err := f.Format(v)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}

func (f *Formatter) encode(w io.Writer, v *value.Value) error {
	opts := []jsontext.Options{
		jsontext.AllowDuplicateNames(true),
		jsontext.AllowInvalidUTF8(true),
	}
	if f.opts.Mode == ModePretty {
		opts = append(opts, jsontext.Multiline(true), jsontext.WithIndent("  "))
	}
	enc := jsontext.NewEncoder(w, opts...)
	if err := v.MarshalJSONTo(enc); err != nil {
		return errors.NewFormatError("failed to encode value", err)
	}
	return nil
}

// Transform returns v with every object key rewritten. When no rewrite is
// configured v is returned as is.
func (f *Formatter) Transform(v *value.Value) *value.Value {
	if f.opts.KeyCase == KeepCase && len(f.opts.Renames) == 0 {
		return v
	}
	return f.rewrite(v)
}

func (f *Formatter) rewrite(v *value.Value) *value.Value {
	switch v.Kind() {
	case value.Array:
		out := value.NewArray()
		for _, e := range v.Elements() {
			out.PushBack(f.rewrite(e))
		}
		return out
	case value.Object:
		out := value.NewObject()
		for _, m := range v.Members() {
			out.Add(f.key(m.Key), f.rewrite(m.Value))
		}
		return out
	}
	return v.Clone()
}

func (f *Formatter) key(k string) string {
	for _, rename := range f.opts.Renames {
		if renamed, ok := rename(k); ok {
			return renamed
		}
	}
	return f.opts.KeyCase.apply(k)
}
