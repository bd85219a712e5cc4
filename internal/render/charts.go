package render

import (
	"time"

	"github.com/alfredjeanlab/reveal/internal/geometry"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/schedule"
)

// Reveal durations per element type.
const (
	SparklineDraw = 1200 * time.Millisecond
	BarGrow       = 600 * time.Millisecond
	LinkDraw      = 700 * time.Millisecond
	LinkGlow      = 300 * time.Millisecond
	NodePop       = 450 * time.Millisecond
	GaugeArcDraw  = 900 * time.Millisecond
	GaugeFade     = 450 * time.Millisecond
)

// Sparkline draws the trend line over a baseline. t supplies the line's delay.
func Sparkline(pts []geometry.Point, c geometry.Canvas, t schedule.Table, visible bool) Drawing {
	from, to := c.Baseline()
	line := make([]geometry.Point, len(pts))
	copy(line, pts)

	d := Drawing{
		Kind:   KindSparkline,
		Width:  c.Width,
		Height: c.Height,
		Title:  "Throughput trend",
		Gradients: []Gradient{{
			ID: "sparkGrad", X2: 1,
			Stops: []Stop{{Offset: 0, Paint: accent, Opacity: 1}, {Offset: 1, Paint: mint, Opacity: 1}},
		}},
		Elements: []Element{
			{
				Shape:       Polyline{Points: line},
				Stroke:      Ref("sparkGrad"),
				StrokeWidth: 2.5,
				Effect:      EffectDraw,
				Delay:       t.Delay(0),
				Duration:    SparklineDraw,
			},
			{
				Shape:  Line{From: from, To: to},
				Stroke: baseline,
			},
		},
	}
	return d.WithVisible(visible)
}

// StackedBars draws one column per bar, each layer growing from the bottom.
// t must have a row per bar and a layer per component.
func StackedBars(bars []geometry.Bar, c geometry.BarCanvas, t schedule.Table, visible bool) Drawing {
	fills := [3]Paint{mint, accent, violet}
	elements := make([]Element, 0, len(bars)*3+1)
	for i, b := range bars {
		for j, seg := range b.Segments {
			elements = append(elements, Element{
				Shape:    Rect{X: b.X, Y: seg.Y, Width: b.Width, Height: seg.Height},
				Fill:     fills[j],
				Class:    seg.Component.String(),
				Effect:   EffectGrow,
				Delay:    t.Layer(i, j),
				Duration: BarGrow,
			})
		}
	}
	elements = append(elements, Element{
		Shape:  Line{From: geometry.Point{X: 0, Y: c.Height - 1}, To: geometry.Point{X: c.Width, Y: c.Height - 1}},
		Stroke: baseline,
	})

	d := Drawing{
		Kind:     KindBars,
		Width:    c.Width,
		Height:   c.Height,
		Title:    "Outcome breakdown",
		Elements: elements,
	}
	return d.WithVisible(visible)
}

// Network draws the grid, then each link in order as a glow stroke plus a
// drawn-in stroke, then each node. links and nodes supply per-index delays.
func Network(n geometry.Network, links, nodes schedule.Table, visible bool) Drawing {
	c := geometry.NetworkCanvas
	elements := make([]Element, 0, 1+len(n.Links)*2+len(n.Nodes))
	elements = append(elements, Element{
		Shape: Rect{Width: c.Width, Height: c.Height},
		Fill:  Ref("grid"),
	})

	for i, l := range n.Links {
		seg := Line{From: l.Start, To: l.End}
		elements = append(elements,
			Element{
				Shape:       seg,
				Stroke:      Role(palette.LinkGlow),
				StrokeWidth: 1.6,
				Class:       "link-glow",
				Effect:      EffectFade,
				Delay:       links.Delay(i),
				Duration:    LinkGlow,
			},
			Element{
				Shape:       seg,
				Stroke:      Ref("gradLine"),
				StrokeWidth: 0.9,
				Class:       "link",
				Effect:      EffectDraw,
				Delay:       links.Delay(i),
				Duration:    LinkDraw,
			},
		)
	}

	for i, node := range n.Nodes {
		at := geometry.Point{X: node.X, Y: node.Y}
		origin := at
		elements = append(elements, Element{
			Shape: Group{Children: []Element{
				{Shape: Circle{Center: at, R: 2.8}, Fill: Ref("nodeGlow"), Opacity: 0.35},
				{Shape: Circle{Center: at, R: 1.7}, Fill: accent, Class: "node-dot"},
				{Shape: Circle{Center: at, R: 0.9}, Fill: white, Opacity: 0.9},
			}},
			Class:    "node",
			Effect:   EffectPop,
			Delay:    nodes.Delay(i),
			Duration: NodePop,
			Origin:   &origin,
		})
	}

	d := Drawing{
		Kind:   KindNetwork,
		Width:  c.Width,
		Height: c.Height,
		Title:  "Connected chains",
		Gradients: []Gradient{
			{
				ID: "nodeGlow", Radial: true, R: 0.5,
				Stops: []Stop{{Offset: 0, Paint: accent, Opacity: 0.9}, {Offset: 1, Paint: accent, Opacity: 0}},
			},
			{
				ID: "gradLine", X2: 1,
				Stops: []Stop{{Offset: 0, Paint: accent, Opacity: 1}, {Offset: 1, Paint: mint, Opacity: 1}},
			},
		},
		Patterns: []Pattern{{
			ID: "grid", Size: 8, Path: "M 8 0 L 0 0 0 8",
			Stroke: Role(palette.Grid), StrokeWidth: 0.4,
		}},
		Elements: elements,
	}
	return d.WithVisible(visible)
}

// Gauge draws the rim arc, the rim labels staggered by labels, and the
// center emblem.
func Gauge(g geometry.Gauge, labels schedule.Table, visible bool) Drawing {
	arcDelay := schedule.Build(1, schedule.GaugeArcCadence).Delay(0)
	centerDelay := schedule.Build(1, schedule.GaugeCenterCadence).Delay(0)

	elements := make([]Element, 0, 2+len(g.Labels))
	elements = append(elements, Element{
		Shape:       Path{D: g.Arc.Path()},
		Stroke:      Ref("dialGrad"),
		StrokeWidth: g.Arc.Stroke,
		Linecap:     "round",
		Class:       "dial-arc",
		Effect:      EffectDraw,
		Delay:       arcDelay,
		Duration:    GaugeArcDraw,
	})

	levels := []string{"low", "med", "high"}
	for i, l := range g.Labels {
		class := "rim-label"
		if i < len(levels) {
			class += " " + levels[i]
		}
		elements = append(elements, Element{
			Shape:    Text{At: l.At, Content: l.Text, Anchor: "middle"},
			Fill:     Role(palette.Text),
			Class:    class,
			Effect:   EffectFade,
			Delay:    labels.Delay(i),
			Duration: GaugeFade,
		})
	}

	elements = append(elements, Element{
		Shape: Group{
			Translate: g.Center,
			Children: []Element{
				{Shape: Circle{R: g.GlowRadius}, Fill: Ref("shieldGlow"), Opacity: 0.15},
				{Shape: Path{D: g.ShieldPath}, Stroke: white, StrokeWidth: 2},
				{Shape: Text{At: g.Title.At, Content: g.Title.Text, Anchor: "middle"}, Fill: Role(palette.Text), Class: "dial-main-text"},
				{Shape: Text{At: g.Subtitle.At, Content: g.Subtitle.Text, Anchor: "middle"}, Fill: Role(palette.Muted), Class: "dial-sub-text"},
			},
		},
		Class:    "dial-center",
		Effect:   EffectPop,
		Delay:    centerDelay,
		Duration: GaugeFade,
	})

	d := Drawing{
		Kind:   KindGauge,
		Width:  geometry.GaugeCanvas.Width,
		Height: geometry.GaugeCanvas.Height,
		Title:  "Security gauge Low → High",
		Gradients: []Gradient{
			{
				ID: "dialGrad", Y1: 1, X2: 1,
				Stops: []Stop{
					{Offset: 0, Paint: Role(palette.GaugeLow), Opacity: 1},
					{Offset: 0.5, Paint: accent, Opacity: 1},
					{Offset: 1, Paint: Role(palette.GaugeHigh), Opacity: 1},
				},
			},
			{
				ID: "shieldGlow", Radial: true, R: 0.6,
				Stops: []Stop{
					{Offset: 0, Paint: accent, Opacity: 0.35},
					{Offset: 1, Paint: Role(palette.Transparent), Opacity: 0},
				},
			},
		},
		Elements: elements,
	}
	return d.WithVisible(visible)
}
