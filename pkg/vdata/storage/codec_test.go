package storage

import (
	"math"
	"reflect"
	"testing"

	"vdatahq/vswcsv/pkg/vdata"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want vdata.Value
	}{
		{name: "null", raw: "null", want: vdata.Null{}},
		{name: "empty", raw: "", want: vdata.Null{}},
		{name: "integer", raw: "42", want: vdata.Int(42)},
		{name: "negative integer", raw: "-7", want: vdata.Int(-7)},
		{name: "float", raw: "1.5", want: vdata.Float(1.5)},
		{name: "exponent", raw: "1e3", want: vdata.Float(1000)},
		{name: "string", raw: `"hello"`, want: vdata.Text("hello")},
		{name: "bool", raw: "true", want: vdata.Text("true")},
		{
			name: "object keeps key order",
			raw:  `{"b": 2, "a": "x", "c": null}`,
			want: vdata.Group{
				{Key: "b", Value: vdata.Int(2)},
				{Key: "a", Value: vdata.Text("x")},
				{Key: "c", Value: vdata.Null{}},
			},
		},
		{
			name: "numeric array",
			raw:  `[1, null, 2.5]`,
			want: vdata.NumericArray{vdata.Num(vdata.Int(1)), {}, vdata.Num(vdata.Float(2.5))},
		},
		{
			name: "text array",
			raw:  `["a", null, 3, false]`,
			want: vdata.TextArray{vdata.Str("a"), {}, vdata.Str("3"), vdata.Str("false")},
		},
		{name: "empty array", raw: `[]`, want: vdata.NumericArray{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodeValue failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestDecodeValue_RejectsNesting(t *testing.T) {
	for _, raw := range []string{`{"a": {"b": 1}}`, `[[1]]`, `{"a": [1]}`} {
		if _, err := DecodeValue([]byte(raw)); err == nil {
			t.Errorf("Expected error for %s", raw)
		}
	}
}

func TestEncodeValue_RoundTrip(t *testing.T) {
	values := []vdata.Value{
		vdata.Null{},
		vdata.Int(-12),
		vdata.Float(3),
		vdata.Float(0.1),
		vdata.Text(`quote " and \ backslash`),
		vdata.Group{{Key: "k", Value: vdata.Float(2)}, {Key: "s", Value: vdata.Text("v")}},
		vdata.NumericArray{vdata.Num(vdata.Int(1)), {}},
		vdata.TextArray{vdata.Str("x"), {}},
	}

	for _, v := range values {
		data, err := EncodeValue(v)
		if err != nil {
			t.Fatalf("EncodeValue(%v) failed: %v", v, err)
		}
		got, err := DecodeValue(data)
		if err != nil {
			t.Fatalf("DecodeValue(%s) failed: %v", data, err)
		}
		if !reflect.DeepEqual(got, v) {
			t.Errorf("Round trip of %#v produced %#v (%s)", v, got, data)
		}
	}
}

func TestEncodeValue_NonFinite(t *testing.T) {
	data, err := EncodeValue(vdata.Float(math.NaN()))
	if err != nil {
		t.Fatalf("EncodeValue failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Expected null, got %s", data)
	}
}

func TestEncodeValue_RejectsNestedGroup(t *testing.T) {
	v := vdata.Group{{Key: "inner", Value: vdata.Group{}}}
	if _, err := EncodeValue(v); err == nil {
		t.Error("Expected error for nested group")
	}
}
