// Package registry holds the charts mounted through the HTTP API.
//
// Every access refreshes a chart's last-seen time. A background reaper
// disposes charts nobody has touched for longer than the idle TTL, so
// abandoned page loads do not hold visibility subscriptions forever.
package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/reveal/internal/chart"
)

// ReaperConfig configures the background idle-chart reaper.
type ReaperConfig struct {
	// IdleTTL is how long a chart may go untouched before it is disposed.
	// Default: 30 minutes.
	IdleTTL time.Duration

	// SweepInterval is how often the reaper scans for idle charts.
	// Default: 60 seconds.
	SweepInterval time.Duration

	// OnReaped is called for each chart disposed by the reaper.
	// Called outside the lock.
	OnReaped func(id string)
}

// Entry is a registry listing row.
type Entry struct {
	chart.Info
	LastSeen time.Time `json:"last_seen"`
	IdleSecs float64   `json:"idle_secs"`
}

// Registry is a concurrency-safe set of mounted charts keyed by id.
type Registry struct {
	mu     sync.RWMutex
	charts map[string]*slot
	now    func() time.Time

	reaperStop chan struct{}
	reaperDone chan struct{}
}

type slot struct {
	chart    *chart.Chart
	lastSeen time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{charts: make(map[string]*slot), now: time.Now}
}

// Add registers c. A chart already registered under the same id is
// disposed and replaced.
func (r *Registry) Add(c *chart.Chart) {
	r.mu.Lock()
	prev := r.charts[c.ID()]
	r.charts[c.ID()] = &slot{chart: c, lastSeen: r.now()}
	r.mu.Unlock()

	if prev != nil && prev.chart != c {
		prev.chart.Close("replaced")
	}
}

// Get returns the chart registered under id and refreshes its last-seen time.
func (r *Registry) Get(id string) (*chart.Chart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.charts[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = r.now()
	return s.chart, true
}

// Remove disposes and unregisters the chart under id.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.charts[id]
	delete(r.charts, id)
	r.mu.Unlock()

	if ok {
		s.chart.Dispose()
	}
	return ok
}

// Len returns the number of registered charts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.charts)
}

// List returns a snapshot of all charts, most recently seen first.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	now := r.now()
	entries := make([]Entry, 0, len(r.charts))
	for _, s := range r.charts {
		entries = append(entries, Entry{
			Info:     s.chart.Info(),
			LastSeen: s.lastSeen,
			IdleSecs: now.Sub(s.lastSeen).Seconds(),
		})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LastSeen.Equal(entries[j].LastSeen) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})
	return entries
}

// DisposeAll disposes and unregisters every chart.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	charts := r.charts
	r.charts = make(map[string]*slot)
	r.mu.Unlock()

	for _, s := range charts {
		s.chart.Close("shutdown")
	}
}

// StartReaper launches a background goroutine that periodically disposes
// idle charts. Call Stop() to shut it down.
func (r *Registry) StartReaper(cfg *ReaperConfig) {
	if cfg == nil {
		cfg = &ReaperConfig{}
	}
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 60 * time.Second
	}

	r.reaperStop = make(chan struct{})
	r.reaperDone = make(chan struct{})

	go r.reapLoop(cfg)
	slog.Info("registry: reaper started",
		"idle_ttl", cfg.IdleTTL,
		"sweep_interval", cfg.SweepInterval)
}

// Stop shuts down the reaper goroutine.
func (r *Registry) Stop() {
	if r.reaperStop != nil {
		close(r.reaperStop)
		<-r.reaperDone
		r.reaperStop = nil
		r.reaperDone = nil
	}
}

func (r *Registry) reapLoop(cfg *ReaperConfig) {
	defer close(r.reaperDone)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.reaperStop:
			return
		case <-ticker.C:
			r.sweep(cfg)
		}
	}
}

func (r *Registry) sweep(cfg *ReaperConfig) int {
	now := r.now()

	var idle []*chart.Chart
	r.mu.Lock()
	for id, s := range r.charts {
		if now.Sub(s.lastSeen) > cfg.IdleTTL {
			idle = append(idle, s.chart)
			delete(r.charts, id)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		slog.Info("registry: reaper disposed idle chart",
			"chart_id", c.ID(),
			"kind", c.Kind(),
			"idle_ttl", cfg.IdleTTL)
		c.Close("idle")
		if cfg.OnReaped != nil {
			cfg.OnReaped(c.ID())
		}
	}
	return len(idle)
}
