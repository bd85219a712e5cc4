package visibility

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is prepended to the region name to form the report subject.
const SubjectPrefix = "reveal.visibility."

// Report is the payload published on a region subject.
type Report struct {
	Ratio float64 `json:"ratio"`
}

// Subject returns the NATS subject carrying reports for region.
func Subject(region string) string {
	return SubjectPrefix + region
}

// NATSObserver receives visibility reports from NATS, one subject per region.
// A browser bridge or any other producer publishes Report payloads to
// reveal.visibility.<region>.
type NATSObserver struct {
	conn *nats.Conn
}

// NewNATSObserver connects to url with automatic reconnection.
func NewNATSObserver(url string, opts ...nats.Option) (*NATSObserver, error) {
	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSObserver{conn: nc}, nil
}

// Observe subscribes to the region subject. Malformed payloads are logged
// and skipped. A closed connection yields ErrUnavailable.
func (o *NATSObserver) Observe(region string, _ float64, fn func(float64)) (Subscription, error) {
	if o.conn.IsClosed() {
		return nil, ErrUnavailable
	}
	subject := Subject(region)
	sub, err := o.conn.Subscribe(subject, func(msg *nats.Msg) {
		var r Report
		if err := json.Unmarshal(msg.Data, &r); err != nil {
			slog.Warn("visibility: dropping malformed report", "subject", msg.Subject, "err", err)
			return
		}
		fn(r.Ratio)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	// Flush ensures the subscription is registered on the server before
	// returning, so reports published on other connections are routed.
	if err := o.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing subscription: %w", err)
	}
	return &natsSub{sub: sub}, nil
}

// Report publishes ratio for region.
func (o *NATSObserver) Report(region string, ratio float64) error {
	data, err := json.Marshal(Report{Ratio: ratio})
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := o.conn.Publish(Subject(region), data); err != nil {
		return fmt.Errorf("publishing report: %w", err)
	}
	return o.conn.Flush()
}

// Close drops the connection.
func (o *NATSObserver) Close() error {
	o.conn.Close()
	return nil
}

type natsSub struct {
	sub *nats.Subscription
}

func (s *natsSub) Release() error {
	if !s.sub.IsValid() {
		return nil
	}
	if err := s.sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrBadSubscription) {
		return err
	}
	return nil
}
