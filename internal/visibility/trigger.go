// Package visibility turns "how much of a region is on screen" reports into a
// single one-way reveal flag.
//
// A Trigger subscribes to one region through an Observer and flips from hidden
// to visible the first time the reported ratio reaches its threshold. It never
// flips back. When observation is not possible the trigger fails open so
// content is never stuck hidden.
package visibility

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Reveal thresholds used by the landing page panels.
const (
	NetworkThreshold  = 0.35
	GaugeThreshold    = 0.45
	InsightsThreshold = 0.35
)

// ErrUnavailable is returned by an Observer that cannot observe at all, for
// example when no broker is connected.
var ErrUnavailable = errors.New("visibility: observation unavailable")

// Observer delivers visible-fraction reports for a named region. fn may be
// called from any goroutine, possibly before Observe returns.
type Observer interface {
	Observe(region string, threshold float64, fn func(ratio float64)) (Subscription, error)
}

// Subscription is a live observation. Release stops delivery and must be
// safe to call more than once.
type Subscription interface {
	Release() error
}

// ValidateThreshold reports whether t lies in (0, 1].
func ValidateThreshold(t float64) error {
	if !(t > 0 && t <= 1) {
		return fmt.Errorf("visibility: threshold %g outside (0, 1]", t)
	}
	return nil
}

// ValidateRegion reports whether r can name a region. Regions double as
// subject tokens, so wildcards, separators and whitespace are rejected.
func ValidateRegion(r string) error {
	if r == "" {
		return errors.New("visibility: region is required")
	}
	if strings.ContainsAny(r, ".*> \t\r\n") {
		return fmt.Errorf("visibility: region %q contains a reserved character", r)
	}
	return nil
}

// Trigger is a one-shot visibility latch for a single region.
type Trigger struct {
	region    string
	threshold float64

	mu         sync.Mutex
	visible    bool
	failedOpen bool
	disposed   bool
	sub        Subscription
	callbacks  []func()
}

// NewTrigger subscribes to region on obs. A nil obs, or any error from
// Observe, leaves the trigger visible immediately. Only a bad threshold or
// region is returned as an error.
func NewTrigger(obs Observer, region string, threshold float64) (*Trigger, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if err := ValidateRegion(region); err != nil {
		return nil, err
	}

	t := &Trigger{region: region, threshold: threshold}
	if obs == nil {
		slog.Info("visibility: no observer, revealing immediately", "region", region)
		t.visible, t.failedOpen = true, true
		return t, nil
	}

	sub, err := obs.Observe(region, threshold, t.report)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			slog.Info("visibility: observer unavailable, revealing immediately", "region", region)
		} else {
			slog.Warn("visibility: observe failed, revealing immediately", "region", region, "err", err)
		}
		t.mu.Lock()
		t.visible, t.failedOpen = true, true
		t.mu.Unlock()
		return t, nil
	}

	t.mu.Lock()
	// The observer may have reported synchronously, before we held sub.
	done := t.visible || t.disposed
	if !done {
		t.sub = sub
	}
	t.mu.Unlock()
	if done && sub != nil {
		release(t.region, sub)
	}
	return t, nil
}

func (t *Trigger) report(ratio float64) {
	if ratio < t.threshold {
		return
	}
	t.mu.Lock()
	if t.visible || t.disposed {
		t.mu.Unlock()
		return
	}
	t.visible = true
	sub := t.sub
	t.sub = nil
	cbs := t.callbacks
	t.callbacks = nil
	t.mu.Unlock()

	if sub != nil {
		release(t.region, sub)
	}
	for _, fn := range cbs {
		fn()
	}
}

// Visible reports whether the trigger has fired.
func (t *Trigger) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// FailedOpen reports whether the trigger became visible because observation
// was impossible rather than because the region was seen.
func (t *Trigger) FailedOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failedOpen
}

// Region returns the observed region name.
func (t *Trigger) Region() string { return t.region }

// Threshold returns the reveal ratio.
func (t *Trigger) Threshold() float64 { return t.threshold }

// OnVisible registers fn to run once when the trigger fires. If it already
// has, fn runs immediately on the caller's goroutine. After Dispose, fn is
// dropped.
func (t *Trigger) OnVisible(fn func()) {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	if t.visible {
		t.mu.Unlock()
		fn()
		return
	}
	t.callbacks = append(t.callbacks, fn)
	t.mu.Unlock()
}

// Dispose releases the subscription. Reports that race with Dispose are
// ignored. Calling Dispose again is a no-op.
func (t *Trigger) Dispose() {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	t.disposed = true
	sub := t.sub
	t.sub = nil
	t.callbacks = nil
	t.mu.Unlock()

	if sub != nil {
		release(t.region, sub)
	}
}

func release(region string, sub Subscription) {
	if err := sub.Release(); err != nil {
		slog.Warn("visibility: failed to release subscription", "region", region, "err", err)
	}
}
