package storage

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// maxLineSize bounds a single JSON-lines record.
const maxLineSize = 16 * 1024 * 1024

// jsonSample is the wire shape of one JSON-lines record.
type jsonSample struct {
	Time   json.Number     `json:"t"`
	Signal string          `json:"s"`
	Value  json.RawMessage `json:"v"`
}

// ReadJSONL decodes JSON-lines samples from r. Blank lines are skipped.
// Each line is {"t": <unix nanoseconds>, "s": "<signal>", "v": <value>}.
func ReadJSONL(r io.Reader) ([]Sample, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var samples []Sample
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		s, err := decodeSampleLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func decodeSampleLine(line []byte) (Sample, error) {
	var js jsonSample
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&js); err != nil {
		return Sample{}, err
	}
	if js.Signal == "" {
		return Sample{}, fmt.Errorf("missing signal name")
	}
	if js.Time == "" {
		return Sample{}, fmt.Errorf("missing time for signal %q", js.Signal)
	}

	ns, err := strconv.ParseInt(js.Time.String(), 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid time %q: %w", js.Time, err)
	}

	v, err := DecodeValue(js.Value)
	if err != nil {
		return Sample{}, fmt.Errorf("signal %q: %w", js.Signal, err)
	}

	return Sample{
		Time:   time.Unix(0, ns).UTC(),
		Signal: js.Signal,
		Value:  v,
	}, nil
}

// LoadJSONLInput decodes a JSON-lines file body into a MemoryInput. When
// base64Encoded is set the body is MIME base64 decoded first.
func LoadJSONLInput(path string, data []byte, base64Encoded bool) (*MemoryInput, error) {
	if base64Encoded {
		decoded, err := DecodeMIMEBase64(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		data = decoded
	}

	samples, err := ReadJSONL(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return NewMemoryInput(path, samples), nil
}

// DecodeMIMEBase64 decodes base64 text, ignoring line breaks and any other
// byte outside the base64 alphabet, as MIME decoders do.
func DecodeMIMEBase64(data []byte) ([]byte, error) {
	clean := make([]byte, 0, len(data))
	for _, c := range data {
		if isBase64Char(c) {
			clean = append(clean, c)
		}
	}

	enc := base64.StdEncoding
	if len(clean)%4 != 0 {
		enc = base64.RawStdEncoding
		clean = bytes.TrimRight(clean, "=")
	}
	out := make([]byte, enc.DecodedLen(len(clean)))
	n, err := enc.Decode(out, clean)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

func isBase64Char(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '+' || c == '/' || c == '='
}
