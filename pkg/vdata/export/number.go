package export

import (
	"math"
	"strconv"

	"vdatahq/vswcsv/pkg/vdata"
)

// DefaultMaxFractionDigits is the fractional digit cap used for exports.
const DefaultMaxFractionDigits = 10

// NumberFormat renders numbers with a fixed '.' decimal point, no grouping
// separators and at most MaxFractionDigits fractional digits. Trailing
// fractional zeros are never printed, so 1.50 renders as "1.5" and 3.0 as "3".
type NumberFormat struct {
	MaxFractionDigits int
}

// DefaultNumberFormat returns the export number format.
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{MaxFractionDigits: DefaultMaxFractionDigits}
}

// Append appends the formatted number to dst.
func (f NumberFormat) Append(dst []byte, n vdata.Numeric) []byte {
	if !n.IsFloat() {
		return strconv.AppendInt(dst, n.Int64(), 10)
	}
	return f.appendFloat(dst, n.Float64())
}

func (f NumberFormat) appendFloat(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "NaN"...)
	case math.IsInf(v, 1):
		return append(dst, "∞"...)
	case math.IsInf(v, -1):
		return append(dst, "-∞"...)
	}

	maxDigits := f.MaxFractionDigits
	if maxDigits < 0 {
		maxDigits = 0
	}

	start := len(dst)
	// Shortest representation first; it is exact for most sensor values.
	dst = strconv.AppendFloat(dst, v, 'f', -1, 64)
	if fractionDigits(dst[start:]) <= maxDigits {
		return dst
	}

	dst = strconv.AppendFloat(dst[:start], v, 'f', maxDigits, 64)
	return trimFraction(dst, start)
}

func fractionDigits(s []byte) int {
	for i, c := range s {
		if c == '.' {
			return len(s) - i - 1
		}
	}
	return 0
}

// trimFraction removes trailing zeros after the decimal point of the number
// starting at dst[start:], and the point itself when nothing remains.
func trimFraction(dst []byte, start int) []byte {
	if fractionDigits(dst[start:]) == 0 {
		return dst
	}
	end := len(dst)
	for end > start && dst[end-1] == '0' {
		end--
	}
	if end > start && dst[end-1] == '.' {
		end--
	}
	return dst[:end]
}
