package storage

import (
	"time"

	"vdatahq/vswcsv/pkg/vdata"
)

// lookAheadIterator back-fills leading nulls. A column whose first value
// appears within the first rows+1 records has that value copied into the
// records before it. Only that window is buffered.
type lookAheadIterator struct {
	src     vdata.RecordIterator
	rows    int
	width   int
	buf     []vdata.Record
	primed  bool
	current vdata.Record
}

func newLookAheadIterator(src vdata.RecordIterator, rows, width int) *lookAheadIterator {
	return &lookAheadIterator{src: src, rows: rows, width: width}
}

func (it *lookAheadIterator) prime() {
	it.primed = true
	for len(it.buf) <= it.rows && it.src.Next() {
		it.buf = append(it.buf, copyRecord(it.src.Record()))
	}

	for col := 0; col < it.width; col++ {
		first := -1
		for i, rec := range it.buf {
			if !vdata.IsNull(rec.Values[col]) {
				first = i
				break
			}
		}
		for i := 0; i < first; i++ {
			it.buf[i].Values[col] = it.buf[first].Values[col]
		}
	}
}

func (it *lookAheadIterator) Next() bool {
	if !it.primed {
		it.prime()
	}
	if len(it.buf) > 0 {
		it.current = it.buf[0]
		it.buf = it.buf[1:]
		return true
	}
	if it.src.Next() {
		it.current = it.src.Record()
		return true
	}
	return false
}

func (it *lookAheadIterator) Record() vdata.Record {
	return it.current
}

func (it *lookAheadIterator) Err() error {
	return it.src.Err()
}

// intervalIterator resamples records onto the grid t0 + k*interval, where t0
// is the first record time. The grid ends at the last record time. Each grid
// record carries, per column, the latest non-null value at or before the
// grid instant.
type intervalIterator struct {
	src      vdata.RecordIterator
	interval time.Duration
	latest   []vdata.Value
	pending  *vdata.Record
	lastSeen time.Time
	next     time.Time
	started  bool
	done     bool
	current  vdata.Record
}

func newIntervalIterator(src vdata.RecordIterator, interval time.Duration, width int) *intervalIterator {
	latest := make([]vdata.Value, width)
	for i := range latest {
		latest[i] = vdata.Null{}
	}
	return &intervalIterator{src: src, interval: interval, latest: latest}
}

func (it *intervalIterator) advance() {
	if it.src.Next() {
		rec := it.src.Record()
		it.pending = &rec
		return
	}
	it.pending = nil
}

func (it *intervalIterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		it.advance()
		if it.pending == nil {
			it.done = true
			return false
		}
		it.next = it.pending.Time
	}

	for it.pending != nil && !it.pending.Time.After(it.next) {
		for i, v := range it.pending.Values {
			if !vdata.IsNull(v) {
				it.latest[i] = v
			}
		}
		it.lastSeen = it.pending.Time
		it.advance()
	}

	if it.pending == nil && (it.next.After(it.lastSeen) || it.src.Err() != nil) {
		it.done = true
		return false
	}

	values := make([]vdata.Value, len(it.latest))
	copy(values, it.latest)
	it.current = vdata.Record{Time: it.next, Values: values}
	it.next = it.next.Add(it.interval)
	return true
}

func (it *intervalIterator) Record() vdata.Record {
	return it.current
}

func (it *intervalIterator) Err() error {
	return it.src.Err()
}

// offsetIterator drops the first skip records.
type offsetIterator struct {
	src  vdata.RecordIterator
	skip int
}

func (it *offsetIterator) Next() bool {
	for it.skip > 0 {
		it.skip--
		if !it.src.Next() {
			it.skip = 0
			return false
		}
	}
	return it.src.Next()
}

func (it *offsetIterator) Record() vdata.Record {
	return it.src.Record()
}

func (it *offsetIterator) Err() error {
	return it.src.Err()
}

func copyRecord(rec vdata.Record) vdata.Record {
	values := make([]vdata.Value, len(rec.Values))
	copy(values, rec.Values)
	return vdata.Record{Time: rec.Time, Values: values}
}
