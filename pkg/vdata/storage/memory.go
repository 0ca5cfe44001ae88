package storage

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryInput holds decoded samples in memory. It backs the JSON-lines
// reader and is convenient for tests.
type MemoryInput struct {
	path    string
	samples []Sample
	catalog *catalog
	mu      sync.RWMutex
	closed  bool
}

// NewMemoryInput creates an input from samples. Samples are sorted by time;
// samples sharing a timestamp keep their given order.
func NewMemoryInput(path string, samples []Sample) *MemoryInput {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	cat := newCatalog()
	for _, s := range sorted {
		cat.add(s.Signal, s.Value)
	}

	return &MemoryInput{
		path:    path,
		samples: sorted,
		catalog: cat,
	}
}

// Path implements Input.
func (m *MemoryInput) Path() string {
	return m.path
}

// Signals implements Input.
func (m *MemoryInput) Signals() []SignalInfo {
	return m.catalog.list()
}

// Cursor implements Input.
func (m *MemoryInput) Cursor(signals []string) (SampleCursor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("input %s is closed", m.path)
	}

	return &memoryCursor{
		samples: m.samples,
		filter:  signalSet(signals),
		pos:     -1,
	}, nil
}

// Close implements Input.
func (m *MemoryInput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type memoryCursor struct {
	samples []Sample
	filter  map[string]struct{}
	pos     int
}

func (c *memoryCursor) Next() bool {
	for c.pos+1 < len(c.samples) {
		c.pos++
		if c.filter == nil {
			return true
		}
		if _, ok := c.filter[c.samples[c.pos].Signal]; ok {
			return true
		}
	}
	c.pos = len(c.samples)
	return false
}

func (c *memoryCursor) Sample() Sample {
	return c.samples[c.pos]
}

func (c *memoryCursor) Err() error {
	return nil
}

func (c *memoryCursor) Close() error {
	return nil
}
