package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vdatahq/vswcsv/pkg/vdata"
)

// DecodeValue decodes a JSON sample value. Objects become Groups with their
// key order preserved, arrays become NumericArray (all numbers or nulls) or
// TextArray (any string), booleans become Text. Nested composites are
// rejected.
func DecodeValue(raw []byte) (vdata.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return vdata.Null{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeGroup(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return scalarValue(tok)
	}
}

func scalarValue(tok json.Token) (vdata.Value, error) {
	switch t := tok.(type) {
	case nil:
		return vdata.Null{}, nil
	case json.Number:
		return numberValue(t)
	case string:
		return vdata.Text(t), nil
	case bool:
		return vdata.Text(strconv.FormatBool(t)), nil
	default:
		return nil, fmt.Errorf("unsupported JSON token %v", tok)
	}
}

func numberValue(n json.Number) (vdata.Numeric, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return vdata.Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return vdata.Numeric{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return vdata.Float(f), nil
}

func decodeGroup(dec *json.Decoder) (vdata.Value, error) {
	group := vdata.Group{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if _, nested := tok.(json.Delim); nested {
			return nil, fmt.Errorf("nested value for field %q is not supported", key)
		}
		v, err := scalarValue(tok)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		group = append(group, vdata.GroupEntry{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return group, nil
}

func decodeArray(dec *json.Decoder) (vdata.Value, error) {
	var toks []json.Token
	hasText := false
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch tok.(type) {
		case json.Delim:
			return nil, fmt.Errorf("nested arrays and objects are not supported")
		case string, bool:
			hasText = true
		}
		toks = append(toks, tok)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	if hasText {
		arr := make(vdata.TextArray, len(toks))
		for i, tok := range toks {
			switch t := tok.(type) {
			case string:
				arr[i] = vdata.Str(t)
			case bool:
				arr[i] = vdata.Str(strconv.FormatBool(t))
			case json.Number:
				arr[i] = vdata.Str(t.String())
			}
		}
		return arr, nil
	}

	arr := make(vdata.NumericArray, len(toks))
	for i, tok := range toks {
		if n, ok := tok.(json.Number); ok {
			num, err := numberValue(n)
			if err != nil {
				return nil, err
			}
			arr[i] = vdata.Num(num)
		}
	}
	return arr, nil
}

// EncodeValue encodes v as JSON so that DecodeValue returns an equal value.
// Float values always carry a decimal point or exponent. NaN and infinities
// have no JSON form and encode as null.
func EncodeValue(v vdata.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v vdata.Value) error {
	switch val := v.(type) {
	case nil, vdata.Null:
		buf.WriteString("null")
	case vdata.Numeric:
		encodeNumber(buf, val)
	case vdata.Text:
		encodeString(buf, string(val))
	case vdata.Group:
		buf.WriteByte('{')
		for i, e := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, e.Key)
			buf.WriteByte(':')
			switch e.Value.(type) {
			case nil, vdata.Null, vdata.Numeric, vdata.Text:
				if err := encodeValue(buf, e.Value); err != nil {
					return err
				}
			default:
				return fmt.Errorf("group field %q: unsupported value kind %s", e.Key, vdata.Kind(e.Value))
			}
		}
		buf.WriteByte('}')
	case vdata.NumericArray:
		buf.WriteByte('[')
		for i, n := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if n.Valid {
				encodeNumber(buf, n.Number)
			} else {
				buf.WriteString("null")
			}
		}
		buf.WriteByte(']')
	case vdata.TextArray:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if s.Valid {
				encodeString(buf, s.String)
			} else {
				buf.WriteString("null")
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported value kind %s", vdata.Kind(v))
	}
	return nil
}

func encodeNumber(buf *bytes.Buffer, n vdata.Numeric) {
	if !n.IsFloat() {
		buf.WriteString(strconv.FormatInt(n.Int64(), 10))
		return
	}
	f := n.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	buf.WriteString(s)
}

func encodeString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}

// numericText renders n for use inside text arrays built by QueueAll.
func numericText(n vdata.Numeric) string {
	if !n.IsFloat() {
		return strconv.FormatInt(n.Int64(), 10)
	}
	return strconv.FormatFloat(n.Float64(), 'f', -1, 64)
}
