package shipment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/egorka-gh/fedexship/fedex/xmldoc"
)

// Field is a named value of Fields.
// Value is a scalar (string, bool, int, int64, float64, json.Number),
// nested Fields, or []interface{} for a repeated element. nil values are skipped.
type Field struct {
	Name  string
	Value interface{}
}

// Fields is an ordered key/value mapping, emitted as child elements in order.
// In JSON it is an object, key order is kept.
type Fields []Field

// UnmarshalJSON decodes a json object keeping keys order
func (f *Fields) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}
	if v == nil {
		*f = nil
		return nil
	}
	fs, ok := v.(Fields)
	if !ok {
		return fmt.Errorf("fields: expected json object, got %T", v)
	}
	*f = fs
	return nil
}

func decodeJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		fs := Fields{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := kt.(string)
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			fs = append(fs, Field{Name: key, Value: v})
		}
		_, err = dec.Token()
		return fs, err
	case '[':
		list := []interface{}{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		_, err = dec.Token()
		return list, err
	}
	return nil, fmt.Errorf("fields: unexpected json delimiter %v", d)
}

// MarshalJSON encodes f as json object keeping order
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fld := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fld.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(fld.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func appendFields(parent *xmldoc.Element, fields Fields) error {
	for _, f := range fields {
		if err := appendField(parent, f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func appendField(parent *xmldoc.Element, name string, value interface{}) error {
	if name == "" {
		return fmt.Errorf("field with empty name in %s", parent.Name)
	}
	switch v := value.(type) {
	case nil:
		return nil
	case Fields:
		child := xmldoc.New(name)
		if err := appendFields(child, v); err != nil {
			return err
		}
		parent.Add(child)
	case []interface{}:
		for _, item := range v {
			if err := appendField(parent, name, item); err != nil {
				return err
			}
		}
	default:
		s, ok := scalarText(v)
		if !ok {
			return fmt.Errorf("field %s: unsupported value type %T", name, value)
		}
		parent.AddText(name, s)
	}
	return nil
}

func scalarText(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return formatFloat(x), true
	}
	return "", false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
