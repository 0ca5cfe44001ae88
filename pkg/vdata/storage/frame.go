package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vdatahq/vswcsv/pkg/vdata"
)

// FrameOptions controls how a Frame maps signals to columns.
type FrameOptions struct {
	// Signals is the allowlist of signal names, in column order. Nil selects
	// every signal in catalog order.
	Signals []string

	// ExpandMode controls struct signal columns. Default: none.
	ExpandMode vdata.ExpandMode

	// QueueMode resolves several values for one column at one instant.
	// Default: last.
	QueueMode vdata.QueueMode

	// Logger receives diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// column is one output column. An empty field means the whole signal value.
type column struct {
	name   string
	signal string
	field  string
}

// Frame joins the samples of one or more inputs into time-stamped records.
// It implements vdata.Source.
type Frame struct {
	ctx     context.Context
	inputs  []Input
	columns []column
	names   []string
	routes  map[string][]int
	filter  []string
	queue   vdata.QueueMode
	logger  *slog.Logger

	mu        sync.Mutex
	open      map[*mergeCursor]struct{}
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

var _ vdata.Source = (*Frame)(nil)

// NewFrame builds a Frame over inputs. The Frame owns the inputs and closes
// them on Close. ctx bounds every iteration started from the Frame.
func NewFrame(ctx context.Context, inputs []Input, opts FrameOptions) (*Frame, error) {
	if len(inputs) == 0 {
		return nil, vdata.ErrNoInputs
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.ExpandMode == "" {
		opts.ExpandMode = vdata.ExpandNone
	}
	if opts.QueueMode == "" {
		opts.QueueMode = vdata.QueueLast
	}
	if _, err := vdata.ParseExpandMode(string(opts.ExpandMode)); err != nil {
		return nil, err
	}
	if _, err := vdata.ParseQueueMode(string(opts.QueueMode)); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &Frame{
		ctx:    ctx,
		inputs: inputs,
		queue:  opts.QueueMode,
		logger: logger.With("component", "vdata.frame"),
		routes: make(map[string][]int),
		open:   make(map[*mergeCursor]struct{}),
	}
	f.resolveColumns(opts)
	return f, nil
}

func (f *Frame) resolveColumns(opts FrameOptions) {
	cat := newCatalog()
	for _, in := range f.inputs {
		for _, info := range in.Signals() {
			cat.addInfo(info)
		}
	}

	var selected []SignalInfo
	if opts.Signals == nil {
		selected = cat.list()
	} else {
		seen := make(map[string]struct{})
		for _, name := range opts.Signals {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			info, ok := cat.get(name)
			if !ok {
				f.logger.Warn("signal not found in inputs", "signal", name)
				continue
			}
			selected = append(selected, info)
		}
	}

	var cols []column
	for _, info := range selected {
		if !info.IsStruct() || opts.ExpandMode == vdata.ExpandNone {
			cols = append(cols, column{name: info.Name, signal: info.Name})
			continue
		}
		for _, field := range info.Fields {
			name := info.Name + "." + field
			if opts.ExpandMode == vdata.ExpandFlat {
				name = field
			}
			cols = append(cols, column{name: name, signal: info.Name, field: field})
		}
	}

	if opts.ExpandMode == vdata.ExpandFlat {
		counts := map[string]int{vdata.TimeColumn: 1}
		for _, c := range cols {
			counts[c.name]++
		}
		for i := range cols {
			if cols[i].field != "" && counts[cols[i].name] > 1 {
				cols[i].name = cols[i].signal + "." + cols[i].field
			}
		}
	}

	f.columns = cols
	f.names = make([]string, len(cols))
	f.filter = make([]string, 0, len(selected))
	for i, c := range cols {
		f.names[i] = c.name
		f.routes[c.signal] = append(f.routes[c.signal], i)
	}
	for _, info := range selected {
		f.filter = append(f.filter, info.Name)
	}
}

// Columns implements vdata.Source.
func (f *Frame) Columns(includeTime bool) []string {
	if !includeTime {
		return append([]string{}, f.names...)
	}
	out := make([]string, 0, len(f.names)+1)
	out = append(out, vdata.TimeColumn)
	return append(out, f.names...)
}

// ColumnDesc describes where a data column's values come from.
type ColumnDesc struct {
	Name   string
	Signal string
	// Field is the struct field name, empty when the column carries the
	// whole signal value.
	Field string
}

// Describe returns one entry per data column, in column order.
func (f *Frame) Describe() []ColumnDesc {
	out := make([]ColumnDesc, len(f.columns))
	for i, c := range f.columns {
		out[i] = ColumnDesc{Name: c.name, Signal: c.signal, Field: c.field}
	}
	return out
}

// InputCount returns the number of inputs joined by the Frame.
func (f *Frame) InputCount() int {
	return len(f.inputs)
}

// Iterator implements vdata.Source. Look-ahead is applied before interval
// resampling; offset skips rows of the densified sequence.
func (f *Frame) Iterator(lookAheadRows, outputIntervalMs, offset int) (vdata.RecordIterator, error) {
	if lookAheadRows < 0 || outputIntervalMs < 0 || offset < 0 {
		return nil, fmt.Errorf("invalid iterator arguments: lookAheadRows=%d outputIntervalMs=%d offset=%d",
			lookAheadRows, outputIntervalMs, offset)
	}

	raw, err := f.rawIterator()
	if err != nil {
		return nil, err
	}

	var it vdata.RecordIterator = raw
	if lookAheadRows > 0 {
		it = newLookAheadIterator(it, lookAheadRows, len(f.columns))
	}
	if outputIntervalMs > 0 {
		it = newIntervalIterator(it, time.Duration(outputIntervalMs)*time.Millisecond, len(f.columns))
	}
	if offset > 0 {
		it = &offsetIterator{src: it, skip: offset}
	}
	return it, nil
}

// Objects implements vdata.Source.
func (f *Frame) Objects(lookAheadRows, outputIntervalMs int) ([]vdata.Record, error) {
	it, err := f.Iterator(lookAheadRows, outputIntervalMs, 0)
	if err != nil {
		return nil, err
	}
	return vdata.Collect(it)
}

// Object1s implements vdata.Source.
func (f *Frame) Object1s() ([]vdata.Record, error) {
	it, err := f.rawIterator()
	if err != nil {
		return nil, err
	}
	return vdata.Collect(it)
}

// Close implements vdata.Source. It closes open cursors, then the inputs.
func (f *Frame) Close() error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		var errs []error
		for c := range f.open {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		f.open = nil
		f.mu.Unlock()

		for _, in := range f.inputs {
			if err := in.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		f.closeErr = errors.Join(errs...)
	})
	return f.closeErr
}

func (f *Frame) rawIterator() (*rowIterator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, fmt.Errorf("frame is closed")
	}

	cursors := make([]SampleCursor, 0, len(f.inputs))
	for _, in := range f.inputs {
		c, err := in.Cursor(f.filter)
		if err != nil {
			for _, open := range cursors {
				open.Close()
			}
			return nil, err
		}
		cursors = append(cursors, c)
	}

	mc := newMergeCursor(cursors)
	f.open[mc] = struct{}{}
	return &rowIterator{frame: f, cursor: mc, width: len(f.columns)}, nil
}

func (f *Frame) release(mc *mergeCursor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.open[mc]; !ok {
		return
	}
	delete(f.open, mc)
	if err := mc.Close(); err != nil {
		f.logger.Warn("failed to close cursor", "error", err)
	}
}

// rowIterator groups merged samples sharing a timestamp into one record.
type rowIterator struct {
	frame   *Frame
	cursor  *mergeCursor
	width   int
	pending *Sample
	current vdata.Record
	drained bool
	done    bool
	err     error
}

func (it *rowIterator) Next() bool {
	if it.done {
		return false
	}
	if it.drained {
		it.done = true
		return false
	}
	if err := it.frame.ctx.Err(); err != nil {
		return it.finish(err)
	}

	if it.pending == nil {
		if !it.cursor.Next() {
			return it.finish(it.cursor.Err())
		}
		s := it.cursor.Sample()
		it.pending = &s
	}

	at := it.pending.Time
	acc := newRowAccumulator(it.width, it.frame.queue)
	for {
		it.frame.route(acc, *it.pending)
		if !it.cursor.Next() {
			it.pending = nil
			if err := it.cursor.Err(); err != nil {
				return it.finish(err)
			}
			break
		}
		s := it.cursor.Sample()
		if !s.Time.Equal(at) {
			it.pending = &s
			break
		}
	}

	it.current = vdata.Record{Time: at, Values: acc.values()}
	if it.pending == nil {
		it.drained = true
		it.frame.release(it.cursor)
	}
	return true
}

func (it *rowIterator) finish(err error) bool {
	it.done = true
	it.err = err
	it.frame.release(it.cursor)
	return false
}

func (it *rowIterator) Record() vdata.Record {
	return it.current
}

func (it *rowIterator) Err() error {
	return it.err
}

// route feeds one sample into the columns of its signal.
func (f *Frame) route(acc *rowAccumulator, s Sample) {
	for _, i := range f.routes[s.Signal] {
		c := f.columns[i]
		v := s.Value
		if c.field != "" {
			g, ok := v.(vdata.Group)
			if !ok {
				continue
			}
			v = g.Get(c.field)
		}
		acc.add(i, v)
	}
}

// rowAccumulator applies the queue mode to the values of one instant.
type rowAccumulator struct {
	mode vdata.QueueMode
	vals [][]vdata.Value
}

func newRowAccumulator(width int, mode vdata.QueueMode) *rowAccumulator {
	return &rowAccumulator{mode: mode, vals: make([][]vdata.Value, width)}
}

func (a *rowAccumulator) add(i int, v vdata.Value) {
	if vdata.IsNull(v) {
		return
	}
	switch a.mode {
	case vdata.QueueFirst:
		if len(a.vals[i]) == 0 {
			a.vals[i] = []vdata.Value{v}
		}
	case vdata.QueueAll:
		a.vals[i] = append(a.vals[i], v)
	default:
		if len(a.vals[i]) == 0 {
			a.vals[i] = []vdata.Value{v}
		} else {
			a.vals[i][0] = v
		}
	}
}

func (a *rowAccumulator) values() []vdata.Value {
	out := make([]vdata.Value, len(a.vals))
	for i, vs := range a.vals {
		switch len(vs) {
		case 0:
			out[i] = vdata.Null{}
		case 1:
			out[i] = vs[0]
		default:
			out[i] = combineQueued(vs)
		}
	}
	return out
}

// combineQueued folds several scalar values into an array. All numbers
// yield a NumericArray, any text yields a TextArray. When a composite value
// is present the last value wins.
func combineQueued(vs []vdata.Value) vdata.Value {
	numeric := true
	for _, v := range vs {
		switch v.(type) {
		case vdata.Numeric:
		case vdata.Text:
			numeric = false
		default:
			return vs[len(vs)-1]
		}
	}

	if numeric {
		arr := make(vdata.NumericArray, len(vs))
		for i, v := range vs {
			arr[i] = vdata.Num(v.(vdata.Numeric))
		}
		return arr
	}

	arr := make(vdata.TextArray, len(vs))
	for i, v := range vs {
		switch val := v.(type) {
		case vdata.Numeric:
			arr[i] = vdata.Str(numericText(val))
		case vdata.Text:
			arr[i] = vdata.Str(string(val))
		}
	}
	return arr
}
