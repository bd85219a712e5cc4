// Package model defines the immutable data the chart engine works on:
// sample series, stacked-bar proportion triples, and the nodes and edges of
// the network diagram.
package model

// Series is an ordered, fixed-length run of samples. A Series is built once
// when a chart mounts and must not be mutated afterwards.
type Series []float64

// Bounds returns the smallest and largest sample. An empty series reports 0, 0.
func (s Series) Bounds() (lo, hi float64) {
	if len(s) == 0 {
		return 0, 0
	}
	lo, hi = s[0], s[0]
	for _, v := range s[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Tail returns a copy of the last n samples (all of them when n >= len(s)).
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if n > len(s) {
		n = len(s)
	}
	out := make(Series, n)
	copy(out, s[len(s)-n:])
	return out
}

// Clone returns an independent copy of s.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// ProportionTriple is one stacked-bar bucket: three non-negative shares whose
// sum never exceeds 100.
type ProportionTriple struct {
	Success float64 `json:"success"`
	Pending float64 `json:"pending"`
	Cost    float64 `json:"cost"`
}

// Sum returns Success + Pending + Cost.
func (p ProportionTriple) Sum() float64 {
	return p.Success + p.Pending + p.Cost
}

// Valid reports whether every component is non-negative and the sum is at most 100.
func (p ProportionTriple) Valid() bool {
	return p.Success >= 0 && p.Pending >= 0 && p.Cost >= 0 && p.Sum() <= 100
}
