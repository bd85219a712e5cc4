package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/reveal/internal/seq"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/render/{file}", s.handleRender)
	mux.HandleFunc("POST /v1/charts", s.handleMountChart)
	mux.HandleFunc("GET /v1/charts", s.handleListCharts)
	mux.HandleFunc("GET /v1/charts/{id}", s.handleGetChart)
	mux.HandleFunc("GET /v1/charts/{id}/svg", s.handleChartSVG)
	mux.HandleFunc("POST /v1/charts/{id}/visibility", s.handleReportVisibility)
	mux.HandleFunc("DELETE /v1/charts/{id}", s.handleDisposeChart)
	mux.HandleFunc("GET /v1/tickers", s.handleTickers)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	return RecoveryMiddleware(LoggingMiddleware(AuthMiddleware(authToken, mux)))
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"charts":         s.registry.Len(),
		"events_dropped": s.sseHub.dropped.Load(),
	})
}

// handleTickers handles GET /v1/tickers.
func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if q := r.URL.Query().Get("symbols"); q != "" {
		for _, sym := range strings.Split(q, ",") {
			if sym = strings.TrimSpace(sym); sym != "" {
				symbols = append(symbols, strings.ToUpper(sym))
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickers": seq.Tickers(symbols)})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeSVG writes an encoded chart.
func writeSVG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
