// Package stationtable implements the per-worker and merged aggregation
// dictionaries: a power-of-two open-addressing table keyed by short
// station names with word-parallel key equality (variant A of the spec),
// plus a swiss-map-backed alternative used as a correctness oracle and as
// a simpler fallback for callers that don't need the SIMD-equality path.
package stationtable

// Entry is the (min, max, sum, count) accumulator for one station.
// A zero-value Entry with Count == 0 is "empty" — Min/Max carry no
// meaning until the first Update.
type Entry struct {
	Min, Max int32
	Sum      int64
	Count    int64
}

// Update folds one scaled-temperature reading into the accumulator.
func (e *Entry) Update(temp int32) {
	if e.Count == 0 {
		e.Min, e.Max = temp, temp
	} else if temp < e.Min {
		e.Min = temp
	} else if temp > e.Max {
		e.Max = temp
	}
	e.Sum += int64(temp)
	e.Count++
}

// Merge folds another accumulator into e. Commutative and associative:
// e.Merge(o) followed by discarding o is equivalent to having inserted
// every reading o ever saw directly into e, in any order.
func (e *Entry) Merge(o *Entry) {
	if o.Count == 0 {
		return
	}
	if e.Count == 0 {
		*e = *o
		return
	}
	if o.Min < e.Min {
		e.Min = o.Min
	}
	if o.Max > e.Max {
		e.Max = o.Max
	}
	e.Sum += o.Sum
	e.Count += o.Count
}

// MeanTenths returns Sum/Count (both already in tenths) rounded
// half-away-from-zero to the nearest integer tenth — DESIGN.md records
// this choice of rounding convention.
func (e *Entry) MeanTenths() int64 {
	if e.Count == 0 {
		return 0
	}
	num, den := e.Sum, e.Count
	if num >= 0 {
		return (num*2 + den) / (den * 2)
	}
	return -(((-num)*2 + den) / (den * 2))
}
