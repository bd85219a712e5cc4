// Package schedule computes per-element start delays for staggered reveals.
//
// Delays are pure functions of element index; a Table is built once per chart
// and never changes, so toggling visibility cannot reorder an animation.
package schedule

import "time"

// Delay returns base + index*step.
func Delay(base time.Duration, index int, step time.Duration) time.Duration {
	return base + time.Duration(index)*step
}

// Layered returns the start delay of each layer of element index:
// Delay(base, index, step) + j*layerStep for j in [0, layers).
func Layered(base time.Duration, index int, step, layerStep time.Duration, layers int) []time.Duration {
	if layers <= 0 {
		return nil
	}
	first := Delay(base, index, step)
	out := make([]time.Duration, layers)
	for j := range out {
		out[j] = first + time.Duration(j)*layerStep
	}
	return out
}

// Cadence describes how a group of elements is staggered.
type Cadence struct {
	Base      time.Duration
	Step      time.Duration
	LayerStep time.Duration
	Layers    int // 0 or 1 means a single layer
}

// Cadences observed on the landing page panels.
var (
	BarCadence         = Cadence{Base: 60 * time.Millisecond, Step: 50 * time.Millisecond, LayerStep: 80 * time.Millisecond, Layers: 3}
	LinkCadence        = Cadence{Base: 150 * time.Millisecond, Step: 160 * time.Millisecond}
	NodeCadence        = Cadence{Base: 100 * time.Millisecond, Step: 90 * time.Millisecond}
	SparklineCadence   = Cadence{Base: 60 * time.Millisecond}
	GaugeArcCadence    = Cadence{}
	GaugeLabelCadence  = Cadence{Base: 200 * time.Millisecond, Step: 120 * time.Millisecond}
	GaugeCenterCadence = Cadence{Base: 400 * time.Millisecond}
)

func (c Cadence) layers() int {
	if c.Layers < 1 {
		return 1
	}
	return c.Layers
}

// Table holds the precomputed delays for n elements.
type Table struct {
	delays [][]time.Duration
}

// Build evaluates c for elements 0..n-1. n <= 0 yields an empty table.
func Build(n int, c Cadence) Table {
	if n <= 0 {
		return Table{}
	}
	delays := make([][]time.Duration, n)
	for i := range delays {
		delays[i] = Layered(c.Base, i, c.Step, c.LayerStep, c.layers())
	}
	return Table{delays: delays}
}

// Len returns the element count.
func (t Table) Len() int { return len(t.delays) }

// Layers returns the number of layers per element.
func (t Table) Layers() int {
	if len(t.delays) == 0 {
		return 0
	}
	return len(t.delays[0])
}

// Delay returns the first-layer delay of element i, or 0 when out of range.
func (t Table) Delay(i int) time.Duration {
	return t.Layer(i, 0)
}

// Layer returns the delay of layer j of element i, or 0 when out of range.
func (t Table) Layer(i, j int) time.Duration {
	if i < 0 || i >= len(t.delays) || j < 0 || j >= len(t.delays[i]) {
		return 0
	}
	return t.delays[i][j]
}

// Max returns the largest delay in the table.
func (t Table) Max() time.Duration {
	var m time.Duration
	for _, row := range t.delays {
		for _, d := range row {
			if d > m {
				m = d
			}
		}
	}
	return m
}
