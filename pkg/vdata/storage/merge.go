package storage

import (
	"container/heap"
	"errors"
)

type mergeItem struct {
	sample Sample
	input  int
	cursor SampleCursor
}

// mergeHeap orders cursor heads by time, then by input index.
type mergeHeap []*mergeItem

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	ti, tj := h[i].sample.Time, h[j].sample.Time
	if ti.Equal(tj) {
		return h[i].input < h[j].input
	}
	return ti.Before(tj)
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(*mergeItem)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// mergeCursor merges time-ordered cursors into one time-ordered cursor.
// Samples with equal timestamps come in input order, then in cursor order.
type mergeCursor struct {
	cursors []SampleCursor
	h       mergeHeap
	last    *mergeItem
	current Sample
	started bool
	err     error
}

func newMergeCursor(cursors []SampleCursor) *mergeCursor {
	return &mergeCursor{cursors: cursors}
}

func (m *mergeCursor) Next() bool {
	if m.err != nil {
		return false
	}

	if !m.started {
		m.started = true
		for i, c := range m.cursors {
			if c.Next() {
				m.h = append(m.h, &mergeItem{sample: c.Sample(), input: i, cursor: c})
			} else if err := c.Err(); err != nil {
				m.err = err
				return false
			}
		}
		heap.Init(&m.h)
	} else if m.last != nil {
		item := m.last
		m.last = nil
		if item.cursor.Next() {
			item.sample = item.cursor.Sample()
			heap.Push(&m.h, item)
		} else if err := item.cursor.Err(); err != nil {
			m.err = err
			return false
		}
	}

	if m.h.Len() == 0 {
		return false
	}
	m.last = heap.Pop(&m.h).(*mergeItem)
	m.current = m.last.sample
	return true
}

func (m *mergeCursor) Sample() Sample {
	return m.current
}

func (m *mergeCursor) Err() error {
	return m.err
}

func (m *mergeCursor) Close() error {
	var errs []error
	for _, c := range m.cursors {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
