package noise

import "math"

// Range is the observed [Min, Max] of one or more generation calls.
// The empty range (see EmptyRange) has Min = +Inf and Max = -Inf and is
// the identity for Merge. The zero Range is not empty.
type Range struct {
	Min float32
	Max float32
}

// EmptyRange returns the range that contains no values.
func EmptyRange() Range {
	return Range{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
}

// NewRange converts an engine min/max pair.
func NewRange(mm [2]float32) Range {
	return Range{Min: mm[0], Max: mm[1]}
}

// Merge widens r to cover o.
func (r *Range) Merge(o Range) {
	if o.Min < r.Min {
		r.Min = o.Min
	}
	if o.Max > r.Max {
		r.Max = o.Max
	}
}

// IsEmpty reports whether r has seen no values.
func (r Range) IsEmpty() bool {
	return r.Min > r.Max
}

// Span returns Max - Min, or 0 for an empty range.
func (r Range) Span() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.Max - r.Min
}
