package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alfredjeanlab/reveal/internal/geometry"
	"github.com/alfredjeanlab/reveal/internal/palette"
)

// Option configures SVG encoding.
type Option func(*encoder)

// WithIDPrefix prefixes every definition id and reference so several
// drawings can share one document.
func WithIDPrefix(prefix string) Option {
	return func(e *encoder) { e.prefix = prefix }
}

// EncodeSVG writes d as a standalone SVG document. Roles resolve through p.
// Each animated element carries its presentation and transition inline, so
// the hidden document animates to the visible one when its styles change.
func EncodeSVG(w io.Writer, d Drawing, p palette.Palette, opts ...Option) error {
	e := &encoder{w: w, pal: p}
	for _, o := range opts {
		o(e)
	}
	e.drawing(d)
	return e.err
}

// SVG returns d encoded with EncodeSVG.
func SVG(d Drawing, p palette.Palette, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSVG(&buf, d, p, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type encoder struct {
	w      io.Writer
	pal    palette.Palette
	prefix string
	err    error
}

func (e *encoder) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func num(v float64) string { return geometry.FormatNumber(v) }

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (e *encoder) paint(p Paint) string {
	switch {
	case p == "":
		return "none"
	case strings.HasPrefix(string(p), "url(#"):
		return "url(#" + e.prefix + strings.TrimPrefix(string(p), "url(#")
	}
	return e.pal.Color(string(p))
}

func (e *encoder) drawing(d Drawing) {
	class := "chart chart-" + string(d.Kind)
	if d.Visible {
		class += " on"
	}
	e.printf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" role="img" aria-label="%s" class="%s">`,
		num(d.Width), num(d.Height), escape(d.Title), class)
	if d.Title != "" {
		e.printf("<title>%s</title>", escape(d.Title))
	}
	if len(d.Gradients) > 0 || len(d.Patterns) > 0 {
		e.printf("<defs>")
		for _, p := range d.Patterns {
			e.pattern(p)
		}
		for _, g := range d.Gradients {
			e.gradient(g)
		}
		e.printf("</defs>")
	}
	for _, el := range d.Elements {
		e.element(el)
	}
	e.printf("</svg>\n")
}

func (e *encoder) pattern(p Pattern) {
	e.printf(`<pattern id="%s" width="%s" height="%s" patternUnits="userSpaceOnUse">`,
		escape(e.prefix+p.ID), num(p.Size), num(p.Size))
	e.printf(`<path d="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		escape(p.Path), escape(e.paint(p.Stroke)), num(p.StrokeWidth))
	e.printf("</pattern>")
}

func (e *encoder) gradient(g Gradient) {
	tag := "linearGradient"
	if g.Radial {
		tag = "radialGradient"
		e.printf(`<%s id="%s" cx="50%%" cy="50%%" r="%s%%">`, tag, escape(e.prefix+g.ID), num(g.R*100))
	} else {
		e.printf(`<%s id="%s" x1="%s" y1="%s" x2="%s" y2="%s">`, tag, escape(e.prefix+g.ID),
			num(g.X1), num(g.Y1), num(g.X2), num(g.Y2))
	}
	for _, s := range g.Stops {
		e.printf(`<stop offset="%s%%" stop-color="%s"`, num(s.Offset*100), escape(e.paint(s.Paint)))
		if s.Opacity != 1 {
			e.printf(` stop-opacity="%s"`, num(s.Opacity))
		}
		e.printf("/>")
	}
	e.printf("</%s>", tag)
}

func (e *encoder) element(el Element) {
	if g, ok := el.Shape.(Group); ok {
		e.group(el, g)
		return
	}

	switch s := el.Shape.(type) {
	case Polyline:
		pts := make([]string, len(s.Points))
		for i, p := range s.Points {
			pts[i] = num(p.X) + "," + num(p.Y)
		}
		e.printf(`<polyline points="%s"`, strings.Join(pts, " "))
	case Line:
		e.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s"`, num(s.From.X), num(s.From.Y), num(s.To.X), num(s.To.Y))
	case Rect:
		e.printf(`<rect x="%s" y="%s" width="%s" height="%s"`, num(s.X), num(s.Y), num(s.Width), num(s.Height))
	case Circle:
		e.printf(`<circle cx="%s" cy="%s" r="%s"`, num(s.Center.X), num(s.Center.Y), num(s.R))
	case Path:
		e.printf(`<path d="%s"`, escape(s.D))
	case Text:
		e.printf(`<text x="%s" y="%s"`, num(s.At.X), num(s.At.Y))
		if s.Anchor != "" {
			e.printf(` text-anchor="%s"`, escape(s.Anchor))
		}
	default:
		e.err = fmt.Errorf("render: unsupported shape %T", el.Shape)
		return
	}

	e.attrs(el)
	if t, ok := el.Shape.(Text); ok {
		e.printf(">%s</text>", escape(t.Content))
		return
	}
	e.printf("/>")
}

// group emits a translated wrapper when needed so the reveal transform on
// the inner group does not replace the translation.
func (e *encoder) group(el Element, g Group) {
	translated := g.Translate != (geometry.Point{})
	if translated {
		e.printf(`<g transform="translate(%s %s)">`, num(g.Translate.X), num(g.Translate.Y))
	}
	e.printf("<g")
	e.attrs(el)
	e.printf(">")
	for _, c := range g.Children {
		e.element(c)
	}
	e.printf("</g>")
	if translated {
		e.printf("</g>")
	}
}

func (e *encoder) attrs(el Element) {
	_, isGroup := el.Shape.(Group)
	_, isText := el.Shape.(Text)
	if el.Fill != "" || (!isGroup && !isText) {
		e.printf(` fill="%s"`, escape(e.paint(el.Fill)))
	}
	if el.Stroke != "" {
		e.printf(` stroke="%s"`, escape(e.paint(el.Stroke)))
		if el.StrokeWidth > 0 {
			e.printf(` stroke-width="%s"`, num(el.StrokeWidth))
		}
		if el.Linecap != "" {
			e.printf(` stroke-linecap="%s"`, escape(el.Linecap))
		}
	}

	animatesOpacity := el.Effect == EffectFade || el.Effect == EffectPop
	if el.Opacity > 0 && el.Opacity < 1 && !animatesOpacity {
		e.printf(` opacity="%s"`, num(el.Opacity))
	}

	class := el.Class
	if el.Effect != EffectNone {
		class = strings.TrimSpace(class + " reveal-" + el.Effect.String())
	}
	if class != "" {
		e.printf(` class="%s"`, escape(class))
	}

	if el.Effect == EffectDraw {
		e.printf(` pathLength="1" stroke-dasharray="1"`)
	}
	if style := e.style(el); style != "" {
		e.printf(` style="%s"`, escape(style))
	}
}

func ms(d time.Duration) string {
	return num(float64(d) / float64(time.Millisecond))
}

func (e *encoder) style(el Element) string {
	if el.Effect == EffectNone {
		return ""
	}
	p := el.Presentation
	timing := ms(el.Duration) + "ms ease " + ms(el.Delay) + "ms"
	base := el.Opacity
	if base <= 0 {
		base = 1
	}

	var parts []string
	switch el.Effect {
	case EffectDraw:
		parts = append(parts,
			"stroke-dashoffset:"+num(p.DashOffset),
			"transition:stroke-dashoffset "+timing)
	case EffectGrow:
		parts = append(parts,
			"transform-box:fill-box",
			"transform-origin:center bottom",
			"transform:scaleY("+num(p.ScaleY)+")",
			"transition:transform "+timing)
	case EffectFade:
		parts = append(parts,
			"opacity:"+num(p.Opacity*base),
			"transition:opacity "+timing)
	case EffectPop:
		if el.Origin != nil {
			parts = append(parts, "transform-origin:"+num(el.Origin.X)+"px "+num(el.Origin.Y)+"px")
		} else {
			parts = append(parts, "transform-box:fill-box", "transform-origin:center")
		}
		parts = append(parts,
			"transform:scale("+num(p.Scale)+")",
			"opacity:"+num(p.Opacity*base),
			"transition:transform "+timing+",opacity "+timing)
	}
	return strings.Join(parts, ";")
}
