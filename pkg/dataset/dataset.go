package dataset

import "iter"

// Dataset is an ordered, immutable sequence of records.
type Dataset struct {
	records []Record
}

// New returns a Dataset holding a copy of records.
func New(records ...Record) Dataset {
	if len(records) == 0 {
		return Dataset{}
	}

	return Dataset{records: append([]Record(nil), records...)}
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.records)
}

// At returns the i-th record. It panics if i is out of range.
func (d Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of the records.
func (d Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}

// All iterates over the records in order.
func (d Dataset) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Filter returns a new Dataset with the records for which keep returns true,
// in their original order.
func (d Dataset) Filter(keep func(Record) bool) Dataset {
	var kept []Record
	for _, r := range d.records {
		if keep(r) {
			kept = append(kept, r)
		}
	}

	return Dataset{records: kept}
}

// Conversions returns the number of converted records.
func (d Dataset) Conversions() int {
	total := 0
	for _, r := range d.records {
		if r.Converted {
			total++
		}
	}

	return total
}
