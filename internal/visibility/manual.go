package visibility

import "sync"

// Manual is an in-process Observer driven by explicit reports. It backs
// headless rendering, the HTTP visibility endpoint, and tests.
type Manual struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(float64)
}

// NewManual returns an empty Manual observer.
func NewManual() *Manual {
	return &Manual{subs: make(map[string]map[int]func(float64))}
}

// Observe registers fn for region.
func (m *Manual) Observe(region string, _ float64, fn func(float64)) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	if m.subs[region] == nil {
		m.subs[region] = make(map[int]func(float64))
	}
	m.subs[region][id] = fn
	return &manualSub{m: m, region: region, id: id}, nil
}

// Report delivers ratio to every subscriber of region. Callbacks run on the
// caller's goroutine after the lock is dropped.
func (m *Manual) Report(region string, ratio float64) {
	m.mu.Lock()
	fns := make([]func(float64), 0, len(m.subs[region]))
	for _, fn := range m.subs[region] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(ratio)
	}
}

// RevealNow reports region as fully visible.
func (m *Manual) RevealNow(region string) {
	m.Report(region, 1)
}

// Watching returns the number of live subscriptions on region.
func (m *Manual) Watching(region string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[region])
}

func (m *Manual) release(region string, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs[region], id)
	if len(m.subs[region]) == 0 {
		delete(m.subs, region)
	}
}

type manualSub struct {
	m      *Manual
	region string
	id     int
	once   sync.Once
}

func (s *manualSub) Release() error {
	s.once.Do(func() { s.m.release(s.region, s.id) })
	return nil
}

// Unavailable is an Observer for environments with no visibility signal.
// Every trigger built on it reveals immediately.
type Unavailable struct{}

// Observe always returns ErrUnavailable.
func (Unavailable) Observe(string, float64, func(float64)) (Subscription, error) {
	return nil, ErrUnavailable
}
