package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vdatahq/vswcsv/pkg/config"
	"vdatahq/vswcsv/pkg/vdata"
	"vdatahq/vswcsv/pkg/vdata/export"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{Namespace: "test"}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}

	collector = NewCollector(&config.MetricsConfig{}, nil)
	if collector.Registry() == nil {
		t.Fatal("Expected a fresh registry")
	}
	if collector.config.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Expected default namespace, got %q", collector.config.Namespace)
	}
}

func TestCollector_RecordExport(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordExport(export.Result{
		Mode:     export.ModeIterator,
		Columns:  4,
		Rows:     10,
		Bytes:    512,
		Duration: 20 * time.Millisecond,
	}, nil)
	collector.RecordExport(export.Result{Mode: export.ModeIterator, Rows: 2, Bytes: 40}, errors.New("disk full"))
	collector.RecordExport(export.Result{}, vdata.NewExportError("csv", 0, context.Canceled))

	tests := []struct {
		name   string
		metric prometheus.Collector
		want   float64
	}{
		{"success runs", collector.export.runsTotal.WithLabelValues("iterator", OutcomeSuccess), 1},
		{"error runs", collector.export.runsTotal.WithLabelValues("iterator", OutcomeError), 1},
		{"canceled runs default mode", collector.export.runsTotal.WithLabelValues("objects", OutcomeCanceled), 1},
		{"rows include failed run", collector.export.rowsTotal.WithLabelValues("iterator"), 12},
		{"bytes", collector.export.bytesTotal.WithLabelValues("iterator"), 552},
		{"columns from success", collector.export.columns, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.metric); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := testutil.CollectAndCount(collector.export.duration); got != 1 {
		t.Errorf("expected one duration series, got %d", got)
	}
	if testutil.ToFloat64(collector.export.lastSuccess) == 0 {
		t.Error("expected last success timestamp to be set")
	}
}

func TestCollector_RecordSource(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordInputs(3, 7)
	collector.RecordSourceError("jsonl")
	collector.RecordSourceError("")

	if got := testutil.ToFloat64(collector.source.inputs); got != 3 {
		t.Errorf("inputs = %v, want 3", got)
	}
	if got := testutil.ToFloat64(collector.source.signals); got != 7 {
		t.Errorf("signals = %v, want 7", got)
	}
	if got := testutil.ToFloat64(collector.source.errorsTotal.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown format errors = %v, want 1", got)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordExport(export.Result{Mode: export.ModeObjects, Rows: 5}, nil)

	if err := collector.WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "vswcsv.prom")
	if err := collector.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `test_export_rows_total{mode="objects"} 5`) {
		t.Errorf("expected rows series in textfile, got:\n%s", out)
	}

	missing := filepath.Join(t.TempDir(), "nope", "vswcsv.prom")
	if err := collector.WriteTextfile(missing); err == nil {
		t.Error("expected error for missing directory")
	}
}
