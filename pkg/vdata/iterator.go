package vdata

// SliceIterator walks an already materialized record collection.
type SliceIterator struct {
	records []Record
	pos     int
}

// NewSliceIterator returns an iterator over records.
func NewSliceIterator(records []Record) *SliceIterator {
	return &SliceIterator{records: records, pos: -1}
}

// Next implements RecordIterator.
func (it *SliceIterator) Next() bool {
	if it.pos+1 >= len(it.records) {
		it.pos = len(it.records)
		return false
	}
	it.pos++
	return true
}

// Record implements RecordIterator.
func (it *SliceIterator) Record() Record {
	return it.records[it.pos]
}

// Err implements RecordIterator. A slice iterator never fails.
func (it *SliceIterator) Err() error {
	return nil
}

// Len returns the number of records in the collection.
func (it *SliceIterator) Len() int {
	return len(it.records)
}

// Collect drains it into a slice.
func Collect(it RecordIterator) ([]Record, error) {
	var records []Record
	for it.Next() {
		records = append(records, it.Record())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
