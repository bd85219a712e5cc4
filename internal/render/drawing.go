package render

import (
	"fmt"
	"sync"
	"time"
)

// Kind names a chart renderer.
type Kind string

const (
	KindSparkline Kind = "sparkline"
	KindBars      Kind = "bars"
	KindNetwork   Kind = "network"
	KindGauge     Kind = "gauge"
)

// Kinds lists every renderer.
var Kinds = []Kind{KindSparkline, KindBars, KindNetwork, KindGauge}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Drawing is a complete, renderer-independent chart picture.
type Drawing struct {
	Kind      Kind
	Width     float64
	Height    float64
	Title     string
	Visible   bool
	Gradients []Gradient
	Patterns  []Pattern
	Elements  []Element
}

// SettleAfter returns how long after reveal the last element finishes.
func (d Drawing) SettleAfter() time.Duration {
	var end time.Duration
	for _, e := range d.Elements {
		if f := e.finish(); f > end {
			end = f
		}
	}
	return end
}

// WithVisible returns a copy of d presented for visible. Geometry is shared.
func (d Drawing) WithVisible(visible bool) Drawing {
	out := d
	out.Visible = visible
	out.Elements = make([]Element, len(d.Elements))
	for i, e := range d.Elements {
		out.Elements[i] = e.present(visible)
	}
	return out
}

// State is a chart's position in its reveal lifecycle.
type State int

const (
	StateIdle State = iota
	StateRevealing
	StateSettled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRevealing:
		return "revealing"
	case StateSettled:
		return "settled"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateIdle, StateRevealing, StateSettled} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown reveal state %q", text)
}

// Reveal tracks Idle -> Revealing -> Settled. Transitions only go forward.
type Reveal struct {
	settle time.Duration
	now    func() time.Time

	mu      sync.Mutex
	started bool
	settled bool
	start   time.Time
}

// NewReveal returns an idle tracker that settles settle after Start. A nil
// now uses time.Now.
func NewReveal(settle time.Duration, now func() time.Time) *Reveal {
	if now == nil {
		now = time.Now
	}
	return &Reveal{settle: settle, now: now}
}

// Start moves Idle to Revealing. Later calls do nothing.
func (r *Reveal) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.start = r.now()
}

// State returns the current state.
func (r *Reveal) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return StateIdle
	}
	if !r.settled && r.now().Sub(r.start) >= r.settle {
		r.settled = true
	}
	if r.settled {
		return StateSettled
	}
	return StateRevealing
}

// StartedAt returns when Start was first called; zero while idle.
func (r *Reveal) StartedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.start
}

// SettleAfter returns the reveal duration.
func (r *Reveal) SettleAfter() time.Duration {
	return r.settle
}
