// Package seq produces reproducible numeric series from an explicit seed.
//
// Values come from a linear congruential recurrence
//
//	v = (v*A + C) mod M
//
// mapped into [Low, Low+Span] as Low + (v/M)*Span. Each LCG owns its state, so
// two charts seeded alike produce bit-identical output and never interfere.
package seq

import "github.com/alfredjeanlab/reveal/internal/model"

// Params are the recurrence constants.
type Params struct {
	A, C, M int64
}

// Default is the recurrence used by every landing page chart.
var Default = Params{A: 9301, C: 49297, M: 233280}

// Range is the target interval [Low, Low+Span].
type Range struct {
	Low, Span float64
}

// TrendRange keeps throughput samples between 60 and 100.
var TrendRange = Range{Low: 60, Span: 40}

// TrendLength is the number of samples in the throughput trend.
const TrendLength = 28

// LCG is a linear congruential generator. The zero value is not usable; call New.
type LCG struct {
	state int64
	p     Params
}

// New returns a generator seeded with seed. A zero M in p selects Default.
func New(seed int64, p Params) *LCG {
	if p.M == 0 {
		p = Default
	}
	state := seed % p.M
	if state < 0 {
		state += p.M
	}
	return &LCG{state: state, p: p}
}

// Next advances the recurrence and returns v/M in [0, 1).
func (g *LCG) Next() float64 {
	g.state = (g.state*g.p.A + g.p.C) % g.p.M
	return float64(g.state) / float64(g.p.M)
}

// State returns the current recurrence value.
func (g *LCG) State() int64 {
	return g.state
}

// Series draws n values mapped into r. n <= 0 yields an empty series.
func Series(seed int64, n int, p Params, r Range) model.Series {
	if n <= 0 {
		return model.Series{}
	}
	g := New(seed, p)
	out := make(model.Series, n)
	for i := range out {
		out[i] = r.Low + g.Next()*r.Span
	}
	return out
}

// Trend is the throughput series for seed: TrendLength samples in TrendRange.
func Trend(seed int64) model.Series {
	return Series(seed, TrendLength, Default, TrendRange)
}
