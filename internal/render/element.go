// Package render turns chart geometry into drawable element trees.
//
// A Drawing's geometry never depends on visibility. The visible flag only
// selects each element's Presentation, so flipping it is a pure change of
// opacity, scale or stroke reveal that a stylesheet transition can animate.
package render

import (
	"time"

	"github.com/alfredjeanlab/reveal/internal/geometry"
	"github.com/alfredjeanlab/reveal/internal/palette"
)

// Effect is how an element enters when its drawing is revealed.
type Effect int

const (
	EffectNone Effect = iota
	EffectDraw        // stroke draws in along its length
	EffectGrow        // scales up vertically from its bottom edge
	EffectFade        // opacity 0 to 1
	EffectPop         // fades in while scaling from 0.6 to 1
)

// String returns the effect's CSS class suffix.
func (e Effect) String() string {
	switch e {
	case EffectDraw:
		return "draw"
	case EffectGrow:
		return "grow"
	case EffectFade:
		return "fade"
	case EffectPop:
		return "pop"
	}
	return "none"
}

// PopScale is the starting scale of EffectPop.
const PopScale = 0.6

// Presentation is the animatable state of an element.
type Presentation struct {
	Opacity    float64 `json:"opacity"`
	Scale      float64 `json:"scale"`
	ScaleY     float64 `json:"scale_y"`
	DashOffset float64 `json:"dash_offset"` // 1 hides a normalized stroke, 0 shows it
}

// Shown is the resting presentation of every element.
var Shown = Presentation{Opacity: 1, Scale: 1, ScaleY: 1}

// Presentation returns the state of an element with effect e.
func (e Effect) Presentation(visible bool) Presentation {
	if visible {
		return Shown
	}
	p := Shown
	switch e {
	case EffectDraw:
		p.DashOffset = 1
	case EffectGrow:
		p.ScaleY = 0
	case EffectFade:
		p.Opacity = 0
	case EffectPop:
		p.Opacity = 0
		p.Scale = PopScale
	}
	return p
}

// Paint is a fill or stroke: a palette role, a Ref to a drawing definition,
// or empty for none.
type Paint string

// Role paints with a palette role.
func Role(role string) Paint { return Paint(role) }

// Ref paints with the gradient or pattern id defined in the same drawing.
func Ref(id string) Paint { return Paint("url(#" + id + ")") }

// Shape is one of Polyline, Line, Rect, Circle, Path, Text or Group.
type Shape interface {
	shape()
}

type Polyline struct {
	Points []geometry.Point `json:"points"`
}

type Line struct {
	From geometry.Point `json:"from"`
	To   geometry.Point `json:"to"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Circle struct {
	Center geometry.Point `json:"center"`
	R      float64        `json:"r"`
}

type Path struct {
	D string `json:"d"`
}

type Text struct {
	At      geometry.Point `json:"at"`
	Content string         `json:"content"`
	Anchor  string         `json:"anchor,omitempty"`
}

// Group translates its children and animates them as one unit.
type Group struct {
	Translate geometry.Point `json:"translate"`
	Children  []Element      `json:"children"`
}

func (Polyline) shape() {}
func (Line) shape()     {}
func (Rect) shape()     {}
func (Circle) shape()   {}
func (Path) shape()     {}
func (Text) shape()     {}
func (Group) shape()    {}

// Element is a shape plus its paint and reveal timing.
type Element struct {
	Shape       Shape
	Fill        Paint
	Stroke      Paint
	StrokeWidth float64
	Opacity     float64 // static opacity; 0 means opaque
	Class       string
	Linecap     string

	Effect   Effect
	Delay    time.Duration
	Duration time.Duration
	Origin   *geometry.Point // transform origin for EffectPop; nil centers on the shape

	Presentation Presentation
}

// finish returns the time at which the element's reveal completes.
func (e Element) finish() time.Duration {
	var end time.Duration
	if e.Effect != EffectNone {
		end = e.Delay + e.Duration
	}
	if g, ok := e.Shape.(Group); ok {
		for _, c := range g.Children {
			if f := c.finish(); f > end {
				end = f
			}
		}
	}
	return end
}

// present sets e's presentation, and its children's, for visible.
func (e Element) present(visible bool) Element {
	e.Presentation = e.Effect.Presentation(visible)
	if g, ok := e.Shape.(Group); ok {
		children := make([]Element, len(g.Children))
		for i, c := range g.Children {
			children[i] = c.present(visible)
		}
		g.Children = children
		e.Shape = g
	}
	return e
}

// Stop is a gradient color stop. Opacity must be set; 1 is opaque.
type Stop struct {
	Offset  float64
	Paint   Paint
	Opacity float64
}

// Gradient is a linear gradient from (X1,Y1) to (X2,Y2) in bounding-box
// fractions, or a radial one of radius R centered on the box when Radial.
type Gradient struct {
	ID             string
	Radial         bool
	X1, Y1, X2, Y2 float64
	R              float64
	Stops          []Stop
}

// Pattern is a square tile stroked with a single path.
type Pattern struct {
	ID          string
	Size        float64
	Path        string
	Stroke      Paint
	StrokeWidth float64
}

// Default paint roles for stroke paints that reference the palette.
var (
	accent   = Role(palette.Accent)
	mint     = Role(palette.Mint)
	violet   = Role(palette.Violet)
	white    = Role(palette.White)
	baseline = Role(palette.Baseline)
)
