package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
)

// HeaderContentType is set on every published message.
const HeaderContentType = "Content-Type"

// subscriberBuffer is the per-subscription channel capacity.
const subscriberBuffer = 64

// connect dials url with the reconnect policy shared by publisher and
// subscriber. Extra options are applied after the defaults.
func connect(url, name string, opts ...nats.Option) (*nats.Conn, error) {
	base := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// NATSPublisher publishes lifecycle events as JSON to their topic subject.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the broker at url.
func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	nc, err := connect(url, "reveal-events", opts...)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

// Publish encodes event and sends it on topic. Nothing is sent once ctx is done.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", topic, err)
	}
	msg := &nats.Msg{Subject: topic, Data: data, Header: nats.Header{}}
	msg.Header.Set(HeaderContentType, "application/json")
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// Close drains buffered events to the broker and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}

// NATSSubscriber receives lifecycle events from the broker.
type NATSSubscriber struct {
	conn    *nats.Conn
	dropped atomic.Uint64
}

// NewNATSSubscriber connects to the broker at url. Reconnects are retried
// forever; pass nats.DisconnectErrHandler and friends to observe them.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	nc, err := connect(url, "reveal-watch", opts...)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: nc}, nil
}

// Subscribe delivers events whose topic matches pattern (NATS wildcards
// allowed) until ctx is done. Events are dropped, and counted, while the
// consumer is more than a buffer behind; the broker connection never blocks.
func (s *NATSSubscriber) Subscribe(ctx context.Context, pattern string) (<-chan Message, error) {
	ch := make(chan Message, subscriberBuffer)
	var (
		mu     sync.Mutex
		closed bool
	)
	sub, err := s.conn.Subscribe(pattern, func(msg *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- Message{Topic: msg.Subject, Data: msg.Data}:
		default:
			s.dropped.Add(1)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", pattern, err)
	}
	// The subscription must reach the server before events published on
	// other connections are routed to it.
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing subscription to %s: %w", pattern, err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch, nil
}

// Dropped returns how many events were discarded because a consumer fell behind.
func (s *NATSSubscriber) Dropped() uint64 {
	return s.dropped.Load()
}

// Close closes the connection. Open subscriptions stop delivering; their
// channels still close when their contexts end.
func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
