package export

import (
	"strings"
	"testing"
)

func TestAppendEscaped(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain", want: "plain"},
		{in: `back\slash`, want: `back\slash`},
		{in: "a,b", want: `"a,b"`},
		{in: `say "hi"`, want: `"say ""hi"""`},
		{in: `c:\dir,x`, want: `"c:\\dir,x"`},
		{in: "line\nbreak", want: "\"line\nbreak\""},
		{in: "cr\r", want: "\"cr\r\""},
	}

	for _, tt := range tests {
		if got := string(AppendEscaped(nil, tt.in)); got != tt.want {
			t.Errorf("AppendEscaped(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppendEscaped_RoundTrip(t *testing.T) {
	inputs := []string{
		"plain",
		"a,b",
		`quote "inside"`,
		`"leading quote`,
		`mixed \ and " and ,`,
		"multi\nline\r\n",
		`\\double`,
	}

	for _, in := range inputs {
		escaped := string(AppendEscaped(nil, in))
		if got := unescape(escaped); got != in {
			t.Errorf("Round trip of %q via %q produced %q", in, escaped, got)
		}
	}
}

// unescape reverses AppendEscaped for a single field.
func unescape(field string) string {
	if len(field) < 2 || field[0] != '"' || field[len(field)-1] != '"' {
		return field
	}

	inner := field[1 : len(field)-1]
	var sb strings.Builder
	sb.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if (c == '"' || c == '\\') && i+1 < len(inner) && inner[i+1] == c {
			i++
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
