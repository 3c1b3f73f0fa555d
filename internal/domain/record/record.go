// Package record holds the pattern-detection result shape that filters run over.
package record

// Record maps a field name to a scalar (number, string, bool) or an array of scalars.
// Records are owned by the caller; nothing in this module mutates them.
type Record map[string]any

// Lookup returns the value of field. A missing key and an explicit nil are both absent.
func (r Record) Lookup(field string) (any, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Clone returns a shallow copy of the slice header; records themselves are shared.
func Clone(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
