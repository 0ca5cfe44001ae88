package export

import (
	"fmt"
	"strconv"
	"time"

	"vdatahq/vswcsv/pkg/vdata"
)

// CSVEncoder renders records as lines of the export CSV dialect.
//
// An encoder keeps a scratch buffer for nested escaping and must not be used
// by more than one goroutine at a time. Create one encoder per goroutine for
// parallel exports.
type CSVEncoder struct {
	numbers NumberFormat
	scratch []byte
}

// NewCSVEncoder creates a new CSV encoder with the given number format.
func NewCSVEncoder(numbers NumberFormat) *CSVEncoder {
	return &CSVEncoder{numbers: numbers}
}

// AppendHeader resets buf and appends the column names joined by ',' and a
// terminating '\n'. Column names are written verbatim.
func (e *CSVEncoder) AppendHeader(buf []byte, columns []string) []byte {
	buf = buf[:0]
	for i, col := range columns {
		if i != 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, col...)
	}
	return append(buf, '\n')
}

// AppendRecord resets buf and appends one '\n'-terminated line for rec:
// the timestamp followed by one field per value.
//
// A record without a timestamp, or holding a value outside the vdata value
// set, is a programming error and panics.
func (e *CSVEncoder) AppendRecord(buf []byte, rec vdata.Record) []byte {
	if rec.Time.IsZero() {
		panic("export: record without timestamp")
	}

	buf = AppendTimestamp(buf[:0], rec.Time)
	for _, v := range rec.Values {
		buf = append(buf, ',')
		buf = e.AppendValue(buf, v)
	}
	return append(buf, '\n')
}

// AppendValue appends the field text for a single value.
func (e *CSVEncoder) AppendValue(buf []byte, v vdata.Value) []byte {
	switch val := v.(type) {
	case nil, vdata.Null:
		return buf
	case vdata.Numeric:
		return e.numbers.Append(buf, val)
	case vdata.Text:
		return AppendEscaped(buf, string(val))
	case vdata.Group:
		return e.appendGroup(buf, val)
	case vdata.NumericArray:
		return e.appendNumericArray(buf, val)
	case vdata.TextArray:
		return e.appendTextArray(buf, val)
	default:
		panic(fmt.Sprintf("export: unsupported value kind %s", vdata.Kind(v)))
	}
}

// appendGroup renders "{""k"":""v"",...}". Keys and values are written
// without escaping; null entries are skipped. The last byte is trimmed for
// any non-empty group, so a group holding only nulls renders as "}".
func (e *CSVEncoder) appendGroup(buf []byte, g vdata.Group) []byte {
	buf = append(buf, `"{`...)
	for _, entry := range g {
		if vdata.IsNull(entry.Value) {
			continue
		}
		buf = append(buf, `""`...)
		buf = append(buf, entry.Key...)
		buf = append(buf, `"":""`...)
		switch val := entry.Value.(type) {
		case vdata.Text:
			buf = append(buf, string(val)...)
		case vdata.Numeric:
			buf = e.numbers.Append(buf, val)
		default:
			panic(fmt.Sprintf("export: unsupported group entry kind %s for key %q", vdata.Kind(val), entry.Key))
		}
		buf = append(buf, `"",`...)
	}
	if len(g) > 0 {
		buf = buf[:len(buf)-1]
	}
	return append(buf, `}"`...)
}

func (e *CSVEncoder) appendNumericArray(buf []byte, a vdata.NumericArray) []byte {
	buf = append(buf, `"[`...)
	for i, n := range a {
		if i != 0 {
			buf = append(buf, ',')
		}
		if n.Valid {
			buf = e.numbers.Append(buf, n.Number)
		}
	}
	return append(buf, `]"`...)
}

// appendTextArray escapes every entry twice: once as a standalone field and
// once more because it sits inside the quoted array field.
func (e *CSVEncoder) appendTextArray(buf []byte, a vdata.TextArray) []byte {
	buf = append(buf, `"[`...)
	for i, s := range a {
		if i != 0 {
			buf = append(buf, ',')
		}
		if s.Valid {
			e.scratch = AppendEscaped(e.scratch[:0], s.String)
			buf = AppendEscaped(buf, string(e.scratch))
		}
	}
	return append(buf, `]"`...)
}

// AppendTimestamp appends t as epoch milliseconds. A non-zero sub-millisecond
// remainder is appended as '.' and three zero-padded digits of microseconds.
func AppendTimestamp(dst []byte, t time.Time) []byte {
	dst = strconv.AppendInt(dst, t.UnixMilli(), 10)
	micros := (t.Nanosecond() / 1000) % 1000
	if micros == 0 {
		return dst
	}
	dst = append(dst, '.')
	if micros < 100 {
		dst = append(dst, '0')
	}
	if micros < 10 {
		dst = append(dst, '0')
	}
	return strconv.AppendInt(dst, int64(micros), 10)
}
