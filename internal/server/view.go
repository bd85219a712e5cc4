package server

import (
	"github.com/alfredjeanlab/reveal/internal/chart"
	"github.com/alfredjeanlab/reveal/internal/render"
)

// chartView is the JSON body of GET /v1/charts/{id}.
type chartView struct {
	Chart   chart.Info  `json:"chart"`
	Drawing drawingView `json:"drawing"`
}

type drawingView struct {
	Kind     render.Kind   `json:"kind"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Title    string        `json:"title"`
	Visible  bool          `json:"visible"`
	Elements []elementView `json:"elements"`
}

type elementView struct {
	Shape        string              `json:"shape"`
	Geometry     render.Shape        `json:"geometry,omitempty"`
	Class        string              `json:"class,omitempty"`
	Effect       string              `json:"effect"`
	DelayMs      int64               `json:"delay_ms"`
	DurationMs   int64               `json:"duration_ms"`
	Presentation render.Presentation `json:"presentation"`
	Children     []elementView       `json:"children,omitempty"`
}

func newDrawingView(d render.Drawing) drawingView {
	return drawingView{
		Kind:     d.Kind,
		Width:    d.Width,
		Height:   d.Height,
		Title:    d.Title,
		Visible:  d.Visible,
		Elements: newElementViews(d.Elements),
	}
}

func newElementViews(elems []render.Element) []elementView {
	out := make([]elementView, 0, len(elems))
	for _, e := range elems {
		v := elementView{
			Shape:        shapeName(e.Shape),
			Class:        e.Class,
			Effect:       e.Effect.String(),
			DelayMs:      e.Delay.Milliseconds(),
			DurationMs:   e.Duration.Milliseconds(),
			Presentation: e.Presentation,
		}
		if g, ok := e.Shape.(render.Group); ok {
			v.Children = newElementViews(g.Children)
		} else {
			v.Geometry = e.Shape
		}
		out = append(out, v)
	}
	return out
}

func shapeName(s render.Shape) string {
	switch s.(type) {
	case render.Polyline:
		return "polyline"
	case render.Line:
		return "line"
	case render.Rect:
		return "rect"
	case render.Circle:
		return "circle"
	case render.Path:
		return "path"
	case render.Text:
		return "text"
	case render.Group:
		return "group"
	}
	return "unknown"
}
