package value

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/wuxiang/jsontok/internal/numconv"
)

// MarshalJSONTo writes v as strict JSON. Doubles keep a fraction or exponent
// so that reading them back yields a Double again; NaN and infinities are
// written as null.
func (v *Value) MarshalJSONTo(enc *jsontext.Encoder) error {
	switch v.Kind() {
	case Null:
		return enc.WriteToken(jsontext.Null)
	case Boolean:
		return enc.WriteToken(jsontext.Bool(v.b))
	case Integer:
		return enc.WriteToken(jsontext.Int(v.i))
	case Double:
		return enc.WriteValue(jsontext.Value(numconv.FormatFloat(v.f)))
	case String:
		return enc.WriteToken(jsontext.String(v.s))
	case Array:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, e := range v.elems {
			if err := e.MarshalJSONTo(enc); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case Object:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, m := range v.members {
			if err := enc.WriteToken(jsontext.String(m.Key)); err != nil {
				return err
			}
			if err := m.Value.MarshalJSONTo(enc); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	}
	return fmt.Errorf("value: cannot marshal %s", v.Kind())
}

// UnmarshalJSONFrom replaces v with the next JSON value read from dec.
// Numbers are classified the same way the tokener classifies them.
func (v *Value) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	switch tok.Kind() {
	case 'n':
		*v = Value{kind: Null}
	case 't', 'f':
		*v = Value{kind: Boolean, b: tok.Bool()}
	case '"':
		*v = Value{kind: String, s: tok.String()}
	case '0':
		n, err := fromNumber(tok.String())
		if err != nil {
			return err
		}
		*v = *n
	case '[':
		arr := Value{kind: Array}
		for dec.PeekKind() != ']' {
			e := new(Value)
			if err := e.UnmarshalJSONFrom(dec); err != nil {
				return err
			}
			arr.elems = append(arr.elems, e)
		}
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		*v = arr
	case '{':
		obj := Value{kind: Object}
		for dec.PeekKind() != '}' {
			key, err := dec.ReadToken()
			if err != nil {
				return err
			}
			e := new(Value)
			if err := e.UnmarshalJSONFrom(dec); err != nil {
				return err
			}
			obj.members = append(obj.members, Member{Key: key.String(), Value: e})
		}
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		*v = obj
	default:
		return fmt.Errorf("value: unexpected token %v", tok)
	}
	return nil
}

func fromNumber(text string) (*Value, error) {
	if numconv.IsDouble(text) {
		f, err := numconv.ParseFloat(text)
		if err != nil {
			return nil, err
		}
		return NewDouble(f), nil
	}
	i, err := numconv.ParseInt(text)
	if err != nil {
		return nil, err
	}
	return NewInteger(i), nil
}
