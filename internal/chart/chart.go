// Package chart mounts the four landing page charts.
//
// Mounting generates the data, computes geometry and delays, and arms a
// visibility trigger. All configuration problems surface here; once a Chart
// exists, rendering it cannot fail. The returned Dispose releases the
// trigger's subscription and must be called when the chart goes away.
package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/reveal/internal/events"
	"github.com/alfredjeanlab/reveal/internal/geometry"
	"github.com/alfredjeanlab/reveal/internal/idgen"
	"github.com/alfredjeanlab/reveal/internal/model"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/alfredjeanlab/reveal/internal/render"
	"github.com/alfredjeanlab/reveal/internal/schedule"
	"github.com/alfredjeanlab/reveal/internal/seq"
	"github.com/alfredjeanlab/reveal/internal/visibility"
)

// ErrDisposed is returned when a disposed chart is drawn.
var ErrDisposed = errors.New("chart: disposed")

// DefaultBars is the number of trailing samples shown as stacked bars.
const DefaultBars = 12

// Default regions, named after the page sections that hold each chart.
const (
	RegionInsights   = "insights"
	RegionBlockchain = "blockchain"
	RegionSecureData = "secure-data"
)

// Options configures a mount. Zero values select the landing page defaults.
type Options struct {
	ID     string       // "" generates one
	Seed   int64        // used when Series is nil
	Series model.Series // explicit samples for sparkline and bars
	Length int          // generated series length; 0 = seq.TrendLength

	Canvas    *geometry.Canvas    // sparkline
	BarCanvas *geometry.BarCanvas // stacked bars
	Bars      int                 // trailing buckets; 0 = DefaultBars

	Nodes []model.Node // network; nil = model.DefaultNodes
	Edges []model.Edge // network; nil = model.DefaultEdges

	Region    string
	Threshold float64
	Observer  visibility.Observer // nil reveals immediately
	Publisher events.Publisher    // nil publishes nothing
	Now       func() time.Time
}

// Dispose releases a mounted chart. It is safe to call more than once.
type Dispose func()

// Chart is a mounted, drawable chart instance.
type Chart struct {
	id        string
	kind      render.Kind
	base      render.Drawing
	trigger   *visibility.Trigger
	reveal    *render.Reveal
	pub       events.Publisher
	now       func() time.Time
	mountedAt time.Time

	mu         sync.Mutex
	disposed   bool
	revealedAt time.Time
}

// Info is a chart's externally visible status.
type Info struct {
	ID         string       `json:"id"`
	Kind       render.Kind  `json:"kind"`
	Region     string       `json:"region"`
	Threshold  float64      `json:"threshold"`
	State      render.State `json:"state"`
	Visible    bool         `json:"visible"`
	FailedOpen bool         `json:"failed_open,omitempty"`
	SettleMs   int64        `json:"settle_ms"`
	MountedAt  time.Time    `json:"mounted_at"`
	RevealedAt *time.Time   `json:"revealed_at,omitempty"`
}

// MountSparkline mounts the throughput trend line.
func MountSparkline(opts Options) (*Chart, Dispose, error) {
	return Mount(render.KindSparkline, opts)
}

// MountStackedBars mounts the outcome breakdown bars.
func MountStackedBars(opts Options) (*Chart, Dispose, error) {
	return Mount(render.KindBars, opts)
}

// MountNetwork mounts the node-link diagram.
func MountNetwork(opts Options) (*Chart, Dispose, error) {
	return Mount(render.KindNetwork, opts)
}

// MountGauge mounts the security gauge.
func MountGauge(opts Options) (*Chart, Dispose, error) {
	return Mount(render.KindGauge, opts)
}

// Mount builds a chart of kind and arms its trigger.
func Mount(kind render.Kind, opts Options) (*Chart, Dispose, error) {
	base, err := build(kind, opts)
	if err != nil {
		return nil, nil, err
	}

	region, threshold := opts.Region, opts.Threshold
	if region == "" {
		region = defaultRegion(kind)
	}
	if threshold == 0 {
		threshold = defaultThreshold(kind)
	}

	id := opts.ID
	switch {
	case id == "":
		if id, err = idgen.New(); err != nil {
			return nil, nil, err
		}
	case !idgen.Valid(id):
		var ce model.ConfigError
		ce.Add("id", "%q is not a valid chart id", id)
		return nil, nil, ce.Err()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pub := opts.Publisher
	if pub == nil {
		pub = &events.NoopPublisher{}
	}

	c := &Chart{
		id:        id,
		kind:      kind,
		base:      base,
		reveal:    render.NewReveal(base.SettleAfter(), now),
		pub:       pub,
		now:       now,
		mountedAt: now(),
	}

	trigger, err := visibility.NewTrigger(opts.Observer, region, threshold)
	if err != nil {
		return nil, nil, fmt.Errorf("mounting %s chart: %w", kind, err)
	}
	c.trigger = trigger

	c.publish(events.TopicChartMounted, events.ChartMounted{
		ChartID: id, Kind: string(kind), Region: region, Threshold: threshold,
	})
	trigger.OnVisible(c.onVisible)

	return c, c.Dispose, nil
}

func build(kind render.Kind, opts Options) (render.Drawing, error) {
	switch kind {
	case render.KindSparkline:
		canvas := geometry.SparklineCanvas
		if opts.Canvas != nil {
			canvas = *opts.Canvas
		}
		pts, err := geometry.Line(series(opts), canvas)
		if err != nil {
			return render.Drawing{}, fmt.Errorf("mounting sparkline: %w", err)
		}
		return render.Sparkline(pts, canvas, schedule.Build(1, schedule.SparklineCadence), false), nil

	case render.KindBars:
		canvas := geometry.StackedBarCanvas
		if opts.BarCanvas != nil {
			canvas = *opts.BarCanvas
		}
		n := opts.Bars
		if n == 0 {
			n = DefaultBars
		}
		if n < 0 {
			return render.Drawing{}, fmt.Errorf("mounting bars: bucket count %d is negative", n)
		}
		bars, err := geometry.Bars(geometry.Proportions(series(opts).Tail(n)), canvas)
		if err != nil {
			return render.Drawing{}, fmt.Errorf("mounting bars: %w", err)
		}
		return render.StackedBars(bars, canvas, schedule.Build(len(bars), schedule.BarCadence), false), nil

	case render.KindNetwork:
		nodes, edges := opts.Nodes, opts.Edges
		if nodes == nil {
			nodes = model.DefaultNodes()
		}
		if edges == nil {
			edges = model.DefaultEdges()
		}
		net, err := geometry.ResolveNetwork(nodes, edges)
		if err != nil {
			return render.Drawing{}, fmt.Errorf("mounting network: %w", err)
		}
		return render.Network(net,
			schedule.Build(len(net.Links), schedule.LinkCadence),
			schedule.Build(len(net.Nodes), schedule.NodeCadence),
			false), nil

	case render.KindGauge:
		g := geometry.DefaultGauge()
		return render.Gauge(g, schedule.Build(len(g.Labels), schedule.GaugeLabelCadence), false), nil
	}
	return render.Drawing{}, fmt.Errorf("unknown chart kind %q", kind)
}

func series(opts Options) model.Series {
	if opts.Series != nil {
		return opts.Series.Clone()
	}
	n := opts.Length
	if n == 0 {
		n = seq.TrendLength
	}
	return seq.Series(opts.Seed, n, seq.Default, seq.TrendRange)
}

func defaultRegion(kind render.Kind) string {
	switch kind {
	case render.KindNetwork:
		return RegionBlockchain
	case render.KindGauge:
		return RegionSecureData
	}
	return RegionInsights
}

func defaultThreshold(kind render.Kind) float64 {
	switch kind {
	case render.KindNetwork:
		return visibility.NetworkThreshold
	case render.KindGauge:
		return visibility.GaugeThreshold
	}
	return visibility.InsightsThreshold
}

func (c *Chart) onVisible() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.revealedAt = c.now()
	c.mu.Unlock()

	c.reveal.Start()
	slog.Info("chart: revealed", "chart_id", c.id, "kind", c.kind, "failed_open", c.trigger.FailedOpen())
	c.publish(events.TopicChartRevealed, events.ChartRevealed{
		ChartID:    c.id,
		Kind:       string(c.kind),
		FailedOpen: c.trigger.FailedOpen(),
		SettleMs:   c.reveal.SettleAfter().Milliseconds(),
	})
}

func (c *Chart) publish(topic string, event any) {
	if err := c.pub.Publish(context.Background(), topic, event); err != nil {
		slog.Warn("chart: failed to publish event", "topic", topic, "chart_id", c.id, "err", err)
	}
}

// ID returns the chart instance id.
func (c *Chart) ID() string { return c.id }

// Kind returns the renderer kind.
func (c *Chart) Kind() render.Kind { return c.kind }

// Region returns the observed region.
func (c *Chart) Region() string { return c.trigger.Region() }

// Visible reports whether the chart has been revealed.
func (c *Chart) Visible() bool { return c.trigger.Visible() }

// State returns the reveal lifecycle state.
func (c *Chart) State() render.State { return c.reveal.State() }

// Drawing returns the chart presented for its current visibility.
func (c *Chart) Drawing() (render.Drawing, error) {
	c.mu.Lock()
	disposed := c.disposed
	c.mu.Unlock()
	if disposed {
		return render.Drawing{}, ErrDisposed
	}
	return c.base.WithVisible(c.trigger.Visible()), nil
}

// SVG encodes the current drawing. Definition ids are prefixed with the
// chart id so several charts can share a page.
func (c *Chart) SVG(p palette.Palette) ([]byte, error) {
	d, err := c.Drawing()
	if err != nil {
		return nil, err
	}
	return render.SVG(d, p, render.WithIDPrefix(c.id+"-"))
}

// Info returns a status snapshot.
func (c *Chart) Info() Info {
	c.mu.Lock()
	revealedAt := c.revealedAt
	c.mu.Unlock()

	info := Info{
		ID:         c.id,
		Kind:       c.kind,
		Region:     c.trigger.Region(),
		Threshold:  c.trigger.Threshold(),
		State:      c.reveal.State(),
		Visible:    c.trigger.Visible(),
		FailedOpen: c.trigger.FailedOpen(),
		SettleMs:   c.reveal.SettleAfter().Milliseconds(),
		MountedAt:  c.mountedAt,
	}
	if !revealedAt.IsZero() {
		info.RevealedAt = &revealedAt
	}
	return info
}

// Dispose unmounts the chart.
func (c *Chart) Dispose() {
	c.Close("unmounted")
}

// Close unmounts the chart, recording reason on the disposed event. Only the
// first call has any effect.
func (c *Chart) Close(reason string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.trigger.Dispose()
	c.publish(events.TopicChartDisposed, events.ChartDisposed{ChartID: c.id, Kind: string(c.kind), Reason: reason})
}
