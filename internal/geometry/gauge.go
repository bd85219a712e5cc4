package geometry

import (
	"fmt"
	"math"
	"strconv"
)

// GaugeCanvas is the radial gauge viewBox.
var GaugeCanvas = Canvas{Width: 720, Height: 420}

// Arc is a circular arc swept clockwise (on screen) from StartDeg to EndDeg,
// measured counter-clockwise from the positive x axis.
type Arc struct {
	Center   Point   `json:"center"`
	Radius   float64 `json:"radius"`
	StartDeg float64 `json:"start_deg"`
	EndDeg   float64 `json:"end_deg"`
	Stroke   float64 `json:"stroke"`
}

// At returns the point on the arc's circle at deg.
func (a Arc) At(deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{
		X: a.Center.X + a.Radius*math.Cos(rad),
		Y: a.Center.Y - a.Radius*math.Sin(rad),
	}
}

// Start returns the arc's first endpoint.
func (a Arc) Start() Point { return a.At(a.StartDeg) }

// End returns the arc's last endpoint.
func (a Arc) End() Point { return a.At(a.EndDeg) }

// Path renders the arc as SVG path data.
func (a Arc) Path() string {
	s, e := a.Start(), a.End()
	sweep := math.Abs(a.StartDeg - a.EndDeg)
	large := 0
	if sweep > 180 {
		large = 1
	}
	// Screen y is inverted, so a decreasing angle is a clockwise (sweep=1) turn.
	dir := 1
	if a.EndDeg > a.StartDeg {
		dir = 0
	}
	r := FormatNumber(a.Radius)
	return fmt.Sprintf("M %s %s A %s %s 0 %d %d %s %s",
		FormatNumber(s.X), FormatNumber(s.Y), r, r, large, dir, FormatNumber(e.X), FormatNumber(e.Y))
}

// Label is a positioned text mark.
type Label struct {
	Text string `json:"text"`
	At   Point  `json:"at"`
}

// Gauge is the fixed security gauge layout.
type Gauge struct {
	Arc        Arc     `json:"arc"`
	Labels     []Label `json:"labels"`
	Center     Point   `json:"center"`
	GlowRadius float64 `json:"glow_radius"`
	ShieldPath string  `json:"shield_path"`
	Title      Label   `json:"title"`
	Subtitle   Label   `json:"subtitle"`
}

// ShieldPath is the emblem drawn at the gauge center, in center-relative units.
const ShieldPath = "M -25 -20 L 0 -35 L 25 -20 V 10 C 25 30 0 45 0 45 C 0 45 -25 30 -25 10 Z"

// DefaultGauge returns the gauge: a half-ring from the left of center over
// the top to the right, with Low, Medium, High labels along it and the
// shield emblem inside. Title and subtitle positions are relative to Center.
func DefaultGauge() Gauge {
	return Gauge{
		Arc: Arc{
			Center:   Point{X: 360, Y: 270},
			Radius:   220,
			StartDeg: 180,
			EndDeg:   0,
			Stroke:   20,
		},
		Labels: []Label{
			{Text: "Low", At: Point{X: 120, Y: 140}},
			{Text: "Medium", At: Point{X: 360, Y: 20}},
			{Text: "High", At: Point{X: 600, Y: 140}},
		},
		Center:     Point{X: 360, Y: 220},
		GlowRadius: 90,
		ShieldPath: ShieldPath,
		Title:      Label{Text: "Highest Security", At: Point{X: 0, Y: 80}},
		Subtitle:   Label{Text: "with blockchain", At: Point{X: 0, Y: 110}},
	}
}

// FormatNumber renders v for SVG attributes: rounded to four decimals with
// trailing zeros dropped and negative zero folded to zero.
func FormatNumber(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
