// Package client provides a transport-agnostic interface for the reveal
// chart service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/reveal/internal/chart"
	"github.com/alfredjeanlab/reveal/internal/registry"
	"github.com/alfredjeanlab/reveal/internal/seq"
)

// ChartClient is the interface revealctl's live commands use to talk to a
// running server.
type ChartClient interface {
	// Charts
	Mount(ctx context.Context, req *MountRequest) (*chart.Info, error)
	Get(ctx context.Context, id string) (*chart.Info, error)
	List(ctx context.Context) ([]registry.Entry, error)
	Reveal(ctx context.Context, id string, ratio float64) (*chart.Info, error)
	Dispose(ctx context.Context, id string) error
	SVG(ctx context.Context, id, palette string) ([]byte, error)

	// Static
	Render(ctx context.Context, req *RenderRequest) ([]byte, error)
	Tickers(ctx context.Context, symbols []string) ([]seq.Ticker, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// MountRequest holds parameters for mounting a chart.
type MountRequest struct {
	Kind      string  `json:"kind"`
	Seed      *int64  `json:"seed,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Region    string  `json:"region,omitempty"`
}

// RenderRequest holds parameters for a static render.
type RenderRequest struct {
	Kind    string
	Seed    *int64
	Hidden  bool
	Palette string
}
