package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vdatahq/vswcsv/pkg/vdata"
)

// Format identifies the on-disk layout of an input.
type Format string

const (
	// FormatUnknown marks files that are not sample stores.
	FormatUnknown Format = ""
	// FormatJSONL is a JSON-lines sample log.
	FormatJSONL Format = "jsonl"
	// FormatJSONLBase64 is a MIME base64 encoded JSON-lines sample log.
	FormatJSONLBase64 Format = "jsonl+base64"
	// FormatSQLite is a SQLite sample store.
	FormatSQLite Format = "sqlite"
)

var (
	jsonlExtensions  = []string{".jsonl", ".ndjson"}
	sqliteExtensions = []string{".db", ".sqlite", ".vsdb"}
	base64Extensions = []string{".txt", ".json", ".kfk", ".b64"}
)

// DetectFormat returns the format implied by the file name. Base64 encoded
// extensions are only recognized when base64 is set.
func DetectFormat(path string, base64 bool) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case containsString(jsonlExtensions, ext):
		return FormatJSONL
	case containsString(sqliteExtensions, ext):
		return FormatSQLite
	case base64 && containsString(base64Extensions, ext):
		return FormatJSONLBase64
	default:
		return FormatUnknown
	}
}

// Extensions returns the file extensions recognized as inputs.
func Extensions(base64 bool) []string {
	exts := append([]string{}, jsonlExtensions...)
	exts = append(exts, sqliteExtensions...)
	if base64 {
		exts = append(exts, base64Extensions...)
	}
	return exts
}

// DiscoveredInput is an input file accepted by Discover.
type DiscoveredInput struct {
	Path   string
	Format Format
}

// SplitPaths splits a comma separated input list, dropping empty entries.
func SplitPaths(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Discover resolves input paths to sample store files. Directories are
// expanded one level deep in name order. Hidden entries, names starting
// with "." or "_", and unknown extensions are skipped. Missing paths are
// logged and skipped. It fails with vdata.ErrNoInputs when nothing remains.
func Discover(paths []string, base64 bool, logger *slog.Logger) ([]DiscoveredInput, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var out []DiscoveredInput
	seen := make(map[string]struct{})
	accept := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		if skipName(filepath.Base(path)) {
			logger.Debug("skipping hidden input", "path", path)
			return
		}
		format := DetectFormat(path, base64)
		if format == FormatUnknown {
			logger.Debug("skipping unsupported input", "path", path)
			return
		}
		seen[path] = struct{}{}
		out = append(out, DiscoveredInput{Path: path, Format: format})
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			logger.Warn("input not found", "path", p, "error", err)
			continue
		}
		if !info.IsDir() {
			accept(p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			logger.Warn("failed to read input directory", "path", p, "error", err)
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			accept(filepath.Join(p, e.Name()))
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", vdata.ErrNoInputs, strings.Join(paths, ","))
	}
	return out, nil
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
