package geometry

import (
	"math"

	"github.com/alfredjeanlab/reveal/internal/model"
)

// Proportion floors applied when a raw sample is split into a bucket.
const (
	minSuccess = 45
	minCost    = 10
)

// Proportions derives one triple per sample. The arithmetic follows the
// outcome breakdown panel exactly:
//
//	success = max(45, n)
//	cost    = max(10, 100 - success - (i % 8))
//	pending = max(0, 100 - success - cost)
//
// When the cost floor pushes the total past 100, success gives up the excess
// so every triple stays within 100.
func Proportions(s model.Series) []model.ProportionTriple {
	out := make([]model.ProportionTriple, len(s))
	for i, n := range s {
		success := math.Max(minSuccess, n)
		cost := math.Max(minCost, 100-success-float64(i%8))
		pending := math.Max(0, 100-success-cost)
		if over := success + pending + cost - 100; over > 0 {
			success -= over
		}
		out[i] = model.ProportionTriple{Success: success, Pending: pending, Cost: cost}
	}
	return out
}

// Component identifies a stacked-bar layer. Layers stack bottom to top in
// declaration order.
type Component int

const (
	ComponentSuccess Component = iota
	ComponentPending
	ComponentCost
)

// String returns the component name.
func (c Component) String() string {
	switch c {
	case ComponentSuccess:
		return "success"
	case ComponentPending:
		return "pending"
	case ComponentCost:
		return "cost"
	}
	return "unknown"
}

// Components lists the layers in stacking order.
var Components = [3]Component{ComponentSuccess, ComponentPending, ComponentCost}

// BarCanvas is the stacked-bar viewBox. Headroom is the strip at the top that
// a full 100% column never reaches.
type BarCanvas struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Gap      float64 `json:"gap"`
	Headroom float64 `json:"headroom"`
}

// StackedBarCanvas is the outcome breakdown viewBox.
var StackedBarCanvas = BarCanvas{Width: 360, Height: 180, Gap: 6, Headroom: 10}

// BarWidth returns (Width - Gap*(count+1)) / count.
func (c BarCanvas) BarWidth(count int) float64 {
	if count <= 0 {
		return 0
	}
	return (c.Width - c.Gap*float64(count+1)) / float64(count)
}

// Validate checks the canvas can fit count bars.
func (c BarCanvas) Validate(count int) error {
	var ce model.ConfigError
	if count < 1 {
		ce.Add("bars", "at least one bucket is required")
	}
	if c.Height <= c.Headroom {
		ce.Add("canvas.height", "must exceed headroom (%g <= %g)", c.Height, c.Headroom)
	}
	if count >= 1 && c.BarWidth(count) <= 0 {
		ce.Add("canvas.width", "too narrow for %d bars with gap %g", count, c.Gap)
	}
	return ce.Err()
}

// Segment is one layer of a bar.
type Segment struct {
	Component Component `json:"component"`
	Y         float64   `json:"y"`
	Height    float64   `json:"height"`
}

// Bar is one bucket's column.
type Bar struct {
	X        float64    `json:"x"`
	Width    float64    `json:"width"`
	Segments [3]Segment `json:"segments"`
}

// Bars lays out one stacked column per triple.
func Bars(triples []model.ProportionTriple, c BarCanvas) ([]Bar, error) {
	if err := c.Validate(len(triples)); err != nil {
		return nil, err
	}
	bw := c.BarWidth(len(triples))
	scale := c.Height - c.Headroom

	bars := make([]Bar, len(triples))
	for i, t := range triples {
		values := [3]float64{t.Success, t.Pending, t.Cost}
		b := Bar{X: c.Gap + float64(i)*(bw+c.Gap), Width: bw}
		top := c.Height
		for j, comp := range Components {
			h := values[j] / 100 * scale
			top -= h
			b.Segments[j] = Segment{Component: comp, Y: top, Height: h}
		}
		bars[i] = b
	}
	return bars, nil
}
