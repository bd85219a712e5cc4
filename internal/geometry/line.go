// Package geometry maps chart data onto a fixed logical canvas.
//
// Drawing coordinates grow downward, so the smallest sample lands on the
// bottom edge of the plotting band. All functions are pure; anything that can
// be misconfigured is reported as an error at construction time so the
// render path never fails.
package geometry

import (
	"errors"

	"github.com/alfredjeanlab/reveal/internal/model"
)

// ErrTooFewPoints is returned when a line is requested from fewer than two samples.
var ErrTooFewPoints = errors.New("geometry: a line needs at least 2 points")

// Canvas is a logical drawing area with uniform padding.
type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// SparklineCanvas is the throughput trend viewBox.
var SparklineCanvas = Canvas{Width: 720, Height: 180, Padding: 10}

// Validate checks that the padded band is non-empty.
func (c Canvas) Validate() error {
	var ce model.ConfigError
	if c.Width <= 0 {
		ce.Add("canvas.width", "must be positive, got %g", c.Width)
	}
	if c.Height <= 0 {
		ce.Add("canvas.height", "must be positive, got %g", c.Height)
	}
	if c.Padding < 0 {
		ce.Add("canvas.padding", "must not be negative, got %g", c.Padding)
	}
	if c.Width > 0 && c.Height > 0 && (2*c.Padding >= c.Width || 2*c.Padding >= c.Height) {
		ce.Add("canvas.padding", "leaves no room to plot (%g on a %gx%g canvas)", c.Padding, c.Width, c.Height)
	}
	return ce.Err()
}

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line places one point per sample. X is spaced evenly across
// [Padding, Width-Padding]; Y scales [min, max] onto [Padding, Height-Padding],
// inverted. A flat series sits on the vertical midpoint.
func Line(s model.Series, c Canvas) ([]Point, error) {
	if len(s) < 2 {
		return nil, ErrTooFewPoints
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	lo, hi := s.Bounds()
	span := hi - lo
	plotW := c.Width - 2*c.Padding
	plotH := c.Height - 2*c.Padding
	last := float64(len(s) - 1)

	pts := make([]Point, len(s))
	for i, v := range s {
		y := c.Height / 2
		if span != 0 {
			y = c.Padding + (1-(v-lo)/span)*plotH
		}
		pts[i] = Point{
			X: c.Padding + (float64(i)/last)*plotW,
			Y: y,
		}
	}
	return pts, nil
}

// Baseline returns the endpoints of the horizontal rule under the plotting band.
func (c Canvas) Baseline() (Point, Point) {
	y := c.Height - c.Padding
	return Point{X: c.Padding, Y: y}, Point{X: c.Width - c.Padding, Y: y}
}
