package vdata

import "fmt"

// Value is a single field value of a record. The set of implementations is
// closed: Null, Numeric, Text, Group, NumericArray and TextArray. Code that
// renders values switches over exactly these types and panics on anything
// else.
type Value interface {
	isValue()
}

// Null is the absent value. A nil Value is treated the same way.
type Null struct{}

// Numeric is an integer or floating point number.
type Numeric struct {
	i       int64
	f       float64
	isFloat bool
}

// Int returns an integer Numeric.
func Int(v int64) Numeric {
	return Numeric{i: v}
}

// Float returns a floating point Numeric.
func Float(v float64) Numeric {
	return Numeric{f: v, isFloat: true}
}

// IsFloat reports whether n holds a floating point number.
func (n Numeric) IsFloat() bool { return n.isFloat }

// Int64 returns the integer value. For floats it truncates toward zero.
func (n Numeric) Int64() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	return n.i
}

// Float64 returns the value as a float64.
func (n Numeric) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// String implements fmt.Stringer for debugging output.
func (n Numeric) String() string {
	if n.isFloat {
		return fmt.Sprintf("%g", n.f)
	}
	return fmt.Sprintf("%d", n.i)
}

// Text is a plain string value.
type Text string

// GroupEntry is one key/value pair of a Group. Value must be Null, Numeric or
// Text.
type GroupEntry struct {
	Key   string
	Value Value
}

// Group is an ordered key/value mapping, typically a decoded struct signal.
type Group []GroupEntry

// Get returns the value stored under key, or nil when the key is absent.
func (g Group) Get(key string) Value {
	for _, e := range g {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// NullNumber is an element of a NumericArray.
type NullNumber struct {
	Number Numeric
	Valid  bool
}

// Num wraps a Numeric as a valid array element.
func Num(n Numeric) NullNumber {
	return NullNumber{Number: n, Valid: true}
}

// NumericArray is an ordered, possibly sparse sequence of numbers.
type NumericArray []NullNumber

// NullText is an element of a TextArray.
type NullText struct {
	String string
	Valid  bool
}

// Str wraps a string as a valid array element.
func Str(s string) NullText {
	return NullText{String: s, Valid: true}
}

// TextArray is an ordered, possibly sparse sequence of strings.
type TextArray []NullText

func (Null) isValue()         {}
func (Numeric) isValue()      {}
func (Text) isValue()         {}
func (Group) isValue()        {}
func (NumericArray) isValue() {}
func (TextArray) isValue()    {}

// IsNull reports whether v is absent.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Kind returns a short name for the dynamic type of v, used in logs and
// error messages.
func Kind(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	case Group:
		return "group"
	case NumericArray:
		return "numeric_array"
	case TextArray:
		return "text_array"
	default:
		return fmt.Sprintf("unknown(%T)", v)
	}
}
