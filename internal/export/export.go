// Package export writes rendered charts to files and object stores.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/reveal/internal/chart"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/render"
)

// Destination is the interface for an export target (directory, S3, etc.).
type Destination interface {
	// Write stores data under name, e.g. "gauge.svg".
	Write(ctx context.Context, name string, data []byte) error
}

// Item is one drawing to export.
type Item struct {
	Name    string
	Drawing render.Drawing
}

// ManifestName is the index written alongside the exported drawings.
const ManifestName = "manifest.json"

// Manifest describes an export run.
type Manifest struct {
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Seed      int64           `json:"seed"`
	Visible   bool            `json:"visible"`
	Charts    []ManifestEntry `json:"charts"`
}

// ManifestEntry is one exported file.
type ManifestEntry struct {
	Name     string      `json:"name"`
	Kind     render.Kind `json:"kind"`
	SettleMs int64       `json:"settle_ms"`
	Bytes    int         `json:"bytes"`
}

// LandingSet mounts every chart with seed and returns their drawings,
// presented for visible, named "<kind>.svg".
func LandingSet(seed int64, visible bool) ([]Item, error) {
	items := make([]Item, 0, len(render.Kinds))
	for _, kind := range render.Kinds {
		c, dispose, err := chart.Mount(kind, chart.Options{ID: "export-" + string(kind), Seed: seed})
		if err != nil {
			return nil, err
		}
		d, err := c.Drawing()
		dispose()
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Name: string(kind) + ".svg", Drawing: d.WithVisible(visible)})
	}
	return items, nil
}

// Options configures Run.
type Options struct {
	Seed    int64
	Visible bool
	Palette palette.Palette
	Logger  *slog.Logger
	Now     func() time.Time
}

// Run encodes every item plus a manifest and writes them to each
// destination. A failing destination is logged and reported in the joined
// error; the others still receive every file.
func Run(ctx context.Context, items []Item, dests []Destination, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pal := opts.Palette
	if pal == nil {
		pal = palette.Standalone()
	}

	type file struct {
		name string
		data []byte
	}
	files := make([]file, 0, len(items)+1)
	manifest := Manifest{Version: "1", Timestamp: now().UTC(), Seed: opts.Seed, Visible: opts.Visible}
	for _, it := range items {
		data, err := render.SVG(it.Drawing, pal)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", it.Name, err)
		}
		files = append(files, file{it.Name, data})
		manifest.Charts = append(manifest.Charts, ManifestEntry{
			Name:     it.Name,
			Kind:     it.Drawing.Kind,
			SettleMs: it.Drawing.SettleAfter().Milliseconds(),
			Bytes:    len(data),
		})
	}
	mdata, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	files = append(files, file{ManifestName, mdata})

	var errs []error
	for i, dest := range dests {
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := dest.Write(ctx, f.name, f.data); err != nil {
				logger.Error("export write failed", "destination", i, "name", f.name, "err", err)
				errs = append(errs, fmt.Errorf("destination %d: %s: %w", i, f.name, err))
				continue
			}
		}
		logger.Info("export completed", "destination", i, "files", len(files))
	}
	return errors.Join(errs...)
}
