// Package server exposes mounted charts over HTTP.
//
// Pages mount a chart, report how much of its region is on screen, and
// fetch the SVG for its current state. Lifecycle events go to the
// configured publisher and are fanned out to SSE clients on
// GET /v1/events/stream.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/alfredjeanlab/reveal/internal/events"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/registry"
	"github.com/alfredjeanlab/reveal/internal/visibility"
)

// Reporter forwards a visible-fraction report for a region to whatever
// the mounted charts observe.
type Reporter interface {
	Report(region string, ratio float64) error
}

// ManualReporter drives a visibility.Manual from HTTP reports. It is both
// the Observer and the Reporter of a server without a broker.
type ManualReporter struct {
	*visibility.Manual
}

func (m ManualReporter) Report(region string, ratio float64) error {
	m.Manual.Report(region, ratio)
	return nil
}

// Options configures a Server. Zero values select in-process defaults.
type Options struct {
	Registry  *registry.Registry  // nil creates an empty one
	Publisher events.Publisher    // nil publishes to SSE only
	Observer  visibility.Observer // nil uses a Manual observer
	Reporter  Reporter            // nil uses Observer when it can report
	Palette   palette.Palette     // nil uses palette.Default()
	Seed      int64
}

// Server serves the chart API.
type Server struct {
	registry  *registry.Registry
	publisher events.Publisher
	sseHub    *sseHub
	observer  visibility.Observer
	reporter  Reporter
	palette   palette.Palette
	seed      int64
}

// New returns a Server configured by opts.
func New(opts Options) *Server {
	s := &Server{
		registry: opts.Registry,
		sseHub:   newSSEHub(),
		observer: opts.Observer,
		reporter: opts.Reporter,
		palette:  opts.Palette,
		seed:     opts.Seed,
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	if s.observer == nil {
		m := ManualReporter{visibility.NewManual()}
		s.observer = m
		if s.reporter == nil {
			s.reporter = m
		}
	}
	if s.reporter == nil {
		if r, ok := s.observer.(Reporter); ok {
			s.reporter = r
		}
	}
	if s.palette == nil {
		s.palette = palette.Default()
	}
	next := opts.Publisher
	if next == nil {
		next = &events.NoopPublisher{}
	}
	s.publisher = &hubPublisher{next: next, hub: s.sseHub}
	return s
}

// Registry returns the registry holding the server's charts.
func (s *Server) Registry() *registry.Registry { return s.registry }

// Shutdown stops the reaper and disposes every mounted chart.
func (s *Server) Shutdown() {
	s.registry.Stop()
	s.registry.DisposeAll()
}

// hubPublisher copies every published event to the SSE hub before handing
// it to the next publisher.
type hubPublisher struct {
	next events.Publisher
	hub  *sseHub
}

func (p *hubPublisher) Publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("server: failed to marshal event for SSE broadcast", "topic", topic, "err", err)
	} else {
		p.hub.broadcast(topic, chartIDOf(event), payload)
	}
	return p.next.Publish(ctx, topic, event)
}

func chartIDOf(event any) string {
	switch e := event.(type) {
	case events.ChartMounted:
		return e.ChartID
	case events.ChartRevealed:
		return e.ChartID
	case events.ChartDisposed:
		return e.ChartID
	}
	return ""
}

func (p *hubPublisher) Close() error {
	return p.next.Close()
}
