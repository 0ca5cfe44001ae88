package vdata

import (
	"fmt"
	"strings"
	"time"
)

// Record is one time-stamped observation. Values align positionally with
// Source.Columns(true)[1:]; the first column is always the time column.
type Record struct {
	Time   time.Time
	Values []Value
}

// RecordIterator is a lazy, forward-only sequence of records. It follows the
// database/sql Rows pattern:
//
//	it, err := src.Iterator(0, 0, 0)
//	if err != nil {
//	    return err
//	}
//	for it.Next() {
//	    rec := it.Record()
//	    // ...
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// An iterator is not restartable and must not be used from more than one
// goroutine.
type RecordIterator interface {
	// Next advances to the next record. It returns false when the sequence
	// is exhausted or an error occurred.
	Next() bool

	// Record returns the current record. It is only valid after Next
	// returned true and until the following call to Next.
	Record() Record

	// Err returns the error that stopped the iteration, if any.
	Err() error
}

// Source produces records from decoded signal data. Implementations expose
// three retrieval strategies that all yield the same per-record shape.
type Source interface {
	// Columns returns the ordered column names. With includeTime the time
	// column is the first entry. The result is stable for the lifetime of
	// the source.
	Columns(includeTime bool) []string

	// Iterator returns a lazy record sequence. lookAheadRows and
	// outputIntervalMs control densification (0 disables each); offset
	// skips the first rows of the densified sequence.
	Iterator(lookAheadRows, outputIntervalMs, offset int) (RecordIterator, error)

	// Objects materializes every densified record.
	Objects(lookAheadRows, outputIntervalMs int) ([]Record, error)

	// Object1s materializes every record without densification.
	Object1s() ([]Record, error)

	// Close releases the underlying inputs. It is safe to call more than once.
	Close() error
}

// TimeColumn is the name of the leading time column.
const TimeColumn = "time"

// ExpandMode controls how struct signals map to columns.
type ExpandMode string

const (
	// ExpandNone keeps a struct signal in a single Group column.
	ExpandNone ExpandMode = "none"
	// ExpandFlat emits one column per struct field, named by the field.
	ExpandFlat ExpandMode = "flat"
	// ExpandFull emits one column per struct field, named signal.field.
	ExpandFull ExpandMode = "full"
)

// QueueMode controls which value wins when a column receives several values
// at the same instant.
type QueueMode string

const (
	// QueueLast keeps the last value.
	QueueLast QueueMode = "last"
	// QueueFirst keeps the first value.
	QueueFirst QueueMode = "first"
	// QueueAll keeps every scalar value as an array.
	QueueAll QueueMode = "all"
)

// ParseExpandMode parses an expand mode name. Matching is case-insensitive.
func ParseExpandMode(s string) (ExpandMode, error) {
	switch m := ExpandMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ExpandNone, ExpandFlat, ExpandFull:
		return m, nil
	default:
		return "", fmt.Errorf("unknown expand mode %q (supported: none, flat, full)", s)
	}
}

// ParseQueueMode parses a queue mode name. Matching is case-insensitive.
func ParseQueueMode(s string) (QueueMode, error) {
	switch m := QueueMode(strings.ToLower(strings.TrimSpace(s))); m {
	case QueueLast, QueueFirst, QueueAll:
		return m, nil
	default:
		return "", fmt.Errorf("unknown queue mode %q (supported: last, first, all)", s)
	}
}
