package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/reveal/internal/chart"
	"github.com/alfredjeanlab/reveal/internal/geometry"
	"github.com/alfredjeanlab/reveal/internal/model"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/render"
	"github.com/alfredjeanlab/reveal/internal/visibility"
)

// mountRequest is the JSON body for POST /v1/charts.
type mountRequest struct {
	Kind      string  `json:"kind"`
	Seed      *int64  `json:"seed,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Region    string  `json:"region,omitempty"`
}

// visibilityRequest is the JSON body for POST /v1/charts/{id}/visibility.
type visibilityRequest struct {
	Ratio *float64 `json:"ratio"`
}

// handleMountChart handles POST /v1/charts.
func (s *Server) handleMountChart(w http.ResponseWriter, r *http.Request) {
	var req mountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	kind, ok := render.ParseKind(req.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chart kind %q", req.Kind))
		return
	}
	if req.Threshold != 0 {
		if err := visibility.ValidateThreshold(req.Threshold); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Region != "" {
		if err := visibility.ValidateRegion(req.Region); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	c, _, err := chart.Mount(kind, chart.Options{
		Seed:      seed,
		Region:    req.Region,
		Threshold: req.Threshold,
		Observer:  s.observer,
		Publisher: s.publisher,
	})
	if err != nil {
		writeError(w, mountStatus(err), err.Error())
		return
	}
	s.registry.Add(c)
	writeJSON(w, http.StatusCreated, c.Info())
}

// handleListCharts handles GET /v1/charts.
func (s *Server) handleListCharts(w http.ResponseWriter, _ *http.Request) {
	entries := s.registry.List()
	writeJSON(w, http.StatusOK, map[string]any{"charts": entries, "total": len(entries)})
}

// handleGetChart handles GET /v1/charts/{id}.
func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	d, err := c.Drawing()
	if err != nil {
		writeError(w, drawStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chartView{Chart: c.Info(), Drawing: newDrawingView(d)})
}

// handleChartSVG handles GET /v1/charts/{id}/svg.
func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	pal, err := s.paletteFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := c.SVG(pal)
	if err != nil {
		writeError(w, drawStatus(err), err.Error())
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeSVG(w, data)
}

// handleReportVisibility handles POST /v1/charts/{id}/visibility.
func (s *Server) handleReportVisibility(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Ratio == nil {
		writeError(w, http.StatusBadRequest, "ratio is required")
		return
	}
	if ratio := *req.Ratio; !(ratio >= 0 && ratio <= 1) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("ratio %g outside [0, 1]", ratio))
		return
	}
	if s.reporter == nil {
		writeError(w, http.StatusNotImplemented, "visibility reports are not supported by this observer")
		return
	}
	if err := s.reporter.Report(c.Region(), *req.Ratio); err != nil {
		slog.Error("server: visibility report failed", "chart_id", c.ID(), "region", c.Region(), "err", err)
		writeError(w, http.StatusBadGateway, "visibility report failed")
		return
	}
	writeJSON(w, http.StatusOK, c.Info())
}

// handleDisposeChart handles DELETE /v1/charts/{id}.
func (s *Server) handleDisposeChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.registry.Remove(id) {
		writeError(w, http.StatusNotFound, "chart not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRender handles GET /v1/render/{kind}.svg. The chart is mounted for
// the one request and never registered.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	kind, ok := render.ParseKind(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown chart kind %q", name))
		return
	}

	q := r.URL.Query()
	visible := true
	if v := q.Get("visible"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "visible must be a boolean")
			return
		}
		visible = b
	}
	seed := s.seed
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		seed = n
	}
	pal, err := s.paletteFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := chart.Options{ID: string(kind), Seed: seed}
	if !visible {
		// Nobody reports to a private observer, so the chart stays hidden.
		opts.Observer = visibility.NewManual()
	}
	c, dispose, err := chart.Mount(kind, opts)
	if err != nil {
		writeError(w, mountStatus(err), err.Error())
		return
	}
	defer dispose()

	data, err := c.SVG(pal)
	if err != nil {
		writeError(w, drawStatus(err), err.Error())
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeSVG(w, data)
}

// lookup resolves the {id} path value, writing a 404 when absent.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*chart.Chart, bool) {
	c, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "chart not found")
		return nil, false
	}
	return c, true
}

// paletteFor picks the ?palette= palette, falling back to the server's.
func (s *Server) paletteFor(r *http.Request) (palette.Palette, error) {
	name := r.URL.Query().Get("palette")
	if name == "" {
		return s.palette, nil
	}
	return palette.Named(name)
}

func mountStatus(err error) int {
	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) || errors.Is(err, geometry.ErrTooFewPoints) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func drawStatus(err error) int {
	if errors.Is(err, chart.ErrDisposed) {
		return http.StatusGone
	}
	return http.StatusInternalServerError
}
