// Package events carries chart lifecycle events between a reveal server and
// anyone watching it. Events are JSON on NATS subjects under "reveal.chart";
// without a broker the server publishes to a NoopPublisher and only its own
// SSE stream sees them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Lifecycle topics. Each is also the NATS subject.
const (
	TopicChartMounted  = "reveal.chart.mounted"
	TopicChartRevealed = "reveal.chart.revealed"
	TopicChartDisposed = "reveal.chart.disposed"

	// TopicChartAll matches every chart lifecycle topic.
	TopicChartAll = "reveal.chart.>"
)

// ChartMounted is published once a chart's trigger is armed.
type ChartMounted struct {
	ChartID   string  `json:"chart_id"`
	Kind      string  `json:"kind"`
	Region    string  `json:"region"`
	Threshold float64 `json:"threshold"`
}

// ChartRevealed is published when a chart starts animating. SettleMs is the
// time until its last element finishes.
type ChartRevealed struct {
	ChartID    string `json:"chart_id"`
	Kind       string `json:"kind"`
	FailedOpen bool   `json:"failed_open,omitempty"`
	SettleMs   int64  `json:"settle_ms"`
}

// ChartDisposed is published when a chart is released, by its owner or by
// the idle reaper.
type ChartDisposed struct {
	ChartID string `json:"chart_id"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason,omitempty"`
}

// Publisher emits lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives lifecycle events. Subscribe delivers messages whose
// topic matches pattern until ctx is done, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context, pattern string) (<-chan Message, error)
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (*NoopPublisher) Close() error                               { return nil }

// Message is one received event, still encoded.
type Message struct {
	Topic string
	Data  []byte
}

// Decode returns a pointer to the typed event for m's topic.
func (m Message) Decode() (any, error) {
	var v any
	switch m.Topic {
	case TopicChartMounted:
		v = &ChartMounted{}
	case TopicChartRevealed:
		v = &ChartRevealed{}
	case TopicChartDisposed:
		v = &ChartDisposed{}
	default:
		return nil, fmt.Errorf("events: unknown topic %q", m.Topic)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", m.Topic, err)
	}
	return v, nil
}

// Match reports whether topic matches a NATS-style subject pattern: "*"
// matches exactly one dot-separated token and a trailing ">" matches one or
// more.
func Match(pattern, topic string) bool {
	if pattern == topic {
		return true
	}
	for {
		pTok, pRest, pMore := strings.Cut(pattern, ".")
		tTok, tRest, tMore := strings.Cut(topic, ".")
		switch {
		case pTok == ">":
			return !pMore && tTok != ""
		case pTok != "*" && pTok != tTok:
			return false
		case !pMore || !tMore:
			return pMore == tMore
		}
		pattern, topic = pRest, tRest
	}
}
