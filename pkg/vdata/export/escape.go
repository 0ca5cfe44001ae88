package export

import "strings"

// specials are the characters that force a text field to be quoted.
const specials = ",\"\r\n"

// AppendEscaped appends s to dst using the export text dialect.
//
// Strings without ',', '"', '\r' or '\n' are copied verbatim. Otherwise the
// string is wrapped in double quotes with '"' doubled and '\' doubled; the
// other characters, including the ones that triggered quoting, are copied
// as-is. The backslash doubling is what sets the dialect apart from RFC 4180.
func AppendEscaped(dst []byte, s string) []byte {
	if !strings.ContainsAny(s, specials) {
		return append(dst, s...)
	}

	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			dst = append(dst, c, c)
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}
