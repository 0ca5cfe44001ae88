package storage

import (
	"time"

	"vdatahq/vswcsv/pkg/vdata"
)

// Sample is one decoded signal value at one instant.
type Sample struct {
	Time   time.Time
	Signal string
	Value  vdata.Value
}

// SignalInfo describes a signal of an input. Struct signals list their
// field names in declaration order.
type SignalInfo struct {
	Name   string
	Fields []string
}

// IsStruct reports whether the signal carries Group values.
func (s SignalInfo) IsStruct() bool {
	return len(s.Fields) > 0
}

// SampleCursor iterates the samples of one input in time order.
type SampleCursor interface {
	Next() bool
	Sample() Sample
	Err() error
	Close() error
}

// Input is one opened sample store.
type Input interface {
	// Path identifies the input in logs and errors.
	Path() string

	// Signals returns the signal catalog in first-seen order.
	Signals() []SignalInfo

	// Cursor returns the samples of the named signals ordered by time.
	// Samples sharing a timestamp keep their stored order. A nil filter
	// selects every signal.
	Cursor(signals []string) (SampleCursor, error)

	// Close releases the input.
	Close() error
}

// catalog accumulates signal descriptions while preserving first-seen order
// of signals and of struct fields.
type catalog struct {
	signals []SignalInfo
	index   map[string]int
}

func newCatalog() *catalog {
	return &catalog{index: make(map[string]int)}
}

// add records name and, for Group values, any new field names.
func (c *catalog) add(name string, v vdata.Value) {
	var fields []string
	if g, ok := v.(vdata.Group); ok {
		fields = make([]string, 0, len(g))
		for _, e := range g {
			fields = append(fields, e.Key)
		}
	}
	c.addInfo(SignalInfo{Name: name, Fields: fields})
}

func (c *catalog) addInfo(info SignalInfo) {
	i, ok := c.index[info.Name]
	if !ok {
		c.index[info.Name] = len(c.signals)
		c.signals = append(c.signals, SignalInfo{Name: info.Name, Fields: append([]string(nil), info.Fields...)})
		return
	}
	existing := &c.signals[i]
	for _, f := range info.Fields {
		if !containsString(existing.Fields, f) {
			existing.Fields = append(existing.Fields, f)
		}
	}
}

func (c *catalog) get(name string) (SignalInfo, bool) {
	i, ok := c.index[name]
	if !ok {
		return SignalInfo{}, false
	}
	return c.signals[i], true
}

func (c *catalog) list() []SignalInfo {
	out := make([]SignalInfo, len(c.signals))
	copy(out, c.signals)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// signalSet returns a lookup set for a signal filter; nil means all.
func signalSet(signals []string) map[string]struct{} {
	if signals == nil {
		return nil
	}
	set := make(map[string]struct{}, len(signals))
	for _, s := range signals {
		set[s] = struct{}{}
	}
	return set
}
