package visibility

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestTriggerFiresAtThreshold(t *testing.T) {
	m := NewManual()
	tr, err := NewTrigger(m, "network", NetworkThreshold)
	if err != nil {
		t.Fatalf("NewTrigger: %v", err)
	}
	var fired int32
	tr.OnVisible(func() { atomic.AddInt32(&fired, 1) })

	m.Report("network", 0.2)
	if tr.Visible() {
		t.Fatal("visible below threshold")
	}
	m.Report("network", 0.35)
	if !tr.Visible() {
		t.Fatal("not visible at threshold")
	}
	if tr.FailedOpen() {
		t.Error("FailedOpen should be false for an observed reveal")
	}
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestTriggerIsMonotonic(t *testing.T) {
	m := NewManual()
	tr, err := NewTrigger(m, "gauge", GaugeThreshold)
	if err != nil {
		t.Fatalf("NewTrigger: %v", err)
	}
	var fired int32
	tr.OnVisible(func() { atomic.AddInt32(&fired, 1) })

	m.Report("gauge", 0.9)
	m.Report("gauge", 0)
	m.Report("gauge", 1)
	if !tr.Visible() {
		t.Fatal("trigger reverted after dropping below threshold")
	}
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestTriggerReleasesOnFire(t *testing.T) {
	m := NewManual()
	tr, err := NewTrigger(m, "network", NetworkThreshold)
	if err != nil {
		t.Fatalf("NewTrigger: %v", err)
	}
	if got := m.Watching("network"); got != 1 {
		t.Fatalf("Watching = %d, want 1", got)
	}
	m.RevealNow("network")
	if !tr.Visible() {
		t.Fatal("not visible after RevealNow")
	}
	if got := m.Watching("network"); got != 0 {
		t.Errorf("Watching after fire = %d, want 0", got)
	}
}

func TestTriggerDisposeBeforeFire(t *testing.T) {
	m := NewManual()
	tr, err := NewTrigger(m, "network", NetworkThreshold)
	if err != nil {
		t.Fatalf("NewTrigger: %v", err)
	}
	var fired int32
	tr.OnVisible(func() { atomic.AddInt32(&fired, 1) })

	tr.Dispose()
	if got := m.Watching("network"); got != 0 {
		t.Errorf("Watching after Dispose = %d, want 0", got)
	}
	m.RevealNow("network")
	if tr.Visible() {
		t.Error("disposed trigger became visible")
	}
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("callback ran after Dispose")
	}
	tr.Dispose()
}

func TestTriggerOnVisibleAfterFire(t *testing.T) {
	m := NewManual()
	tr, err := NewTrigger(m, "insights", InsightsThreshold)
	if err != nil {
		t.Fatalf("NewTrigger: %v", err)
	}
	m.RevealNow("insights")
	ran := false
	tr.OnVisible(func() { ran = true })
	if !ran {
		t.Error("OnVisible on a fired trigger should run immediately")
	}
}

func TestTriggerFailOpen(t *testing.T) {
	tests := []struct {
		name string
		obs  Observer
	}{
		{"nil observer", nil},
		{"unavailable", Unavailable{}},
		{"observe error", failingObserver{err: errors.New("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTrigger(tt.obs, "gauge", GaugeThreshold)
			if err != nil {
				t.Fatalf("NewTrigger: %v", err)
			}
			if !tr.Visible() || !tr.FailedOpen() {
				t.Errorf("Visible=%v FailedOpen=%v, want both true", tr.Visible(), tr.FailedOpen())
			}
			tr.Dispose()
		})
	}
}

func TestTriggerSynchronousReport(t *testing.T) {
	obs := &eagerObserver{ratio: 1}
	tr, err := NewTrigger(obs, "network", NetworkThreshold)
	if err != nil {
		t.Fatalf("NewTrigger: %v", err)
	}
	if !tr.Visible() {
		t.Fatal("report delivered during Observe was lost")
	}
	if obs.released.Load() != 1 {
		t.Errorf("subscription released %d times, want 1", obs.released.Load())
	}
}

func TestTriggerRejectsBadInput(t *testing.T) {
	tests := []struct {
		name      string
		region    string
		threshold float64
	}{
		{"zero threshold", "network", 0},
		{"negative threshold", "network", -0.1},
		{"threshold above one", "network", 1.5},
		{"empty region", "", 0.5},
		{"wildcard region", "net.*", 0.5},
		{"spaced region", "my region", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTrigger(NewManual(), tt.region, tt.threshold); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTriggerIndependentRegions(t *testing.T) {
	m := NewManual()
	net, _ := NewTrigger(m, "network", NetworkThreshold)
	gauge, _ := NewTrigger(m, "gauge", GaugeThreshold)
	m.RevealNow("network")
	if !net.Visible() {
		t.Error("network trigger did not fire")
	}
	if gauge.Visible() {
		t.Error("gauge trigger fired on another region's report")
	}
}

func TestTriggerConcurrentReports(t *testing.T) {
	m := NewManual()
	tr, err := NewTrigger(m, "network", NetworkThreshold)
	if err != nil {
		t.Fatalf("NewTrigger: %v", err)
	}
	var fired int32
	tr.OnVisible(func() { atomic.AddInt32(&fired, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RevealNow("network")
		}()
	}
	wg.Wait()
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

type failingObserver struct{ err error }

func (f failingObserver) Observe(string, float64, func(float64)) (Subscription, error) {
	return nil, f.err
}

// eagerObserver reports before Observe returns.
type eagerObserver struct {
	ratio    float64
	released atomic.Int32
}

func (e *eagerObserver) Observe(_ string, _ float64, fn func(float64)) (Subscription, error) {
	fn(e.ratio)
	return releaseFunc(func() error { e.released.Add(1); return nil }), nil
}

type releaseFunc func() error

func (f releaseFunc) Release() error { return f() }
