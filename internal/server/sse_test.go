package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/reveal/internal/events"
)

func recv(t *testing.T, c *streamClient) *streamEvent {
	t.Helper()
	select {
	case e := <-c.ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return nil
}

func expectNone(t *testing.T, c *streamClient) {
	t.Helper()
	select {
	case e := <-c.ch:
		t.Fatalf("unexpected event: %s", e.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHub_BroadcastAndReceive(t *testing.T) {
	hub := newSSEHub()
	client, replay, gap := hub.subscribe(streamFilter{}, false, 0)
	defer hub.unsubscribe(client)
	if replay != nil || gap {
		t.Fatalf("fresh subscribe replayed %d events, gap=%v", len(replay), gap)
	}

	if seq := hub.broadcast(events.TopicChartMounted, "ch-1", []byte(`{"chart_id":"ch-1"}`)); seq != 1 {
		t.Fatalf("first seq = %d, want 1", seq)
	}
	e := recv(t, client)
	if e.Topic != events.TopicChartMounted || e.ChartID != "ch-1" || e.Seq != 1 {
		t.Fatalf("got %+v", e)
	}
}

func TestSSEHub_Filters(t *testing.T) {
	hub := newSSEHub()

	byTopic, _, _ := hub.subscribe(streamFilter{topics: []string{events.TopicChartRevealed}}, false, 0)
	defer hub.unsubscribe(byTopic)
	byChart, _, _ := hub.subscribe(streamFilter{chartID: "ch-2"}, false, 0)
	defer hub.unsubscribe(byChart)
	both, _, _ := hub.subscribe(streamFilter{topics: []string{"reveal.chart.*"}, chartID: "ch-1"}, false, 0)
	defer hub.unsubscribe(both)

	hub.broadcast(events.TopicChartMounted, "ch-1", []byte(`{}`))
	hub.broadcast(events.TopicChartRevealed, "ch-2", []byte(`{}`))
	hub.broadcast("reveal.export.done", "", []byte(`{}`))

	if e := recv(t, byTopic); e.ChartID != "ch-2" {
		t.Errorf("topic filter got %+v", e)
	}
	expectNone(t, byTopic)

	if e := recv(t, byChart); e.Topic != events.TopicChartRevealed {
		t.Errorf("chart filter got %+v", e)
	}
	expectNone(t, byChart)

	if e := recv(t, both); e.Topic != events.TopicChartMounted {
		t.Errorf("combined filter got %+v", e)
	}
	expectNone(t, both)
}

func TestSSEHub_Unsubscribe(t *testing.T) {
	hub := newSSEHub()
	client, _, _ := hub.subscribe(streamFilter{}, false, 0)
	hub.unsubscribe(client)

	hub.broadcast(events.TopicChartMounted, "ch-1", []byte(`{}`))
	expectNone(t, client)
}

func TestSSEHub_SlowClientDrops(t *testing.T) {
	hub := newSSEHub()
	client, _, _ := hub.subscribe(streamFilter{}, false, 0)
	defer hub.unsubscribe(client)

	for range streamBuffer + 5 {
		hub.broadcast(events.TopicChartMounted, "ch-1", []byte(`{}`))
	}
	if len(client.ch) != streamBuffer {
		t.Errorf("buffered %d, want %d", len(client.ch), streamBuffer)
	}
	if got := hub.dropped.Load(); got != 5 {
		t.Errorf("dropped = %d, want 5", got)
	}
}

func TestSSEHub_Since(t *testing.T) {
	hub := newSSEHub()
	if evts, gap := hub.since(0); len(evts) != 0 || gap {
		t.Fatalf("empty hub returned %d events, gap=%v", len(evts), gap)
	}

	for range 5 {
		hub.broadcast(events.TopicChartMounted, "", []byte(`{}`))
	}
	evts, gap := hub.since(2)
	if gap || len(evts) != 3 {
		t.Fatalf("since(2) = %d events, gap=%v", len(evts), gap)
	}
	if evts[0].Seq != 3 || evts[2].Seq != 5 {
		t.Fatalf("expected seqs 3..5, got %d..%d", evts[0].Seq, evts[2].Seq)
	}

	if evts, gap := hub.since(5); len(evts) != 0 || gap {
		t.Errorf("caught-up client got %d events, gap=%v", len(evts), gap)
	}
	if _, gap := hub.since(99); !gap {
		t.Error("id from a previous server should report a gap")
	}
}

func TestSSEHub_HistoryWrap(t *testing.T) {
	hub := newSSEHubSize(10)
	for range 25 {
		hub.broadcast(events.TopicChartMounted, "", []byte(`{}`))
	}

	evts, gap := hub.since(0)
	if !gap {
		t.Error("expected gap once early events are evicted")
	}
	if len(evts) != 10 || evts[0].Seq != 16 || evts[9].Seq != 25 {
		t.Fatalf("history = %d events from %d, want 10 from 16", len(evts), evts[0].Seq)
	}

	if _, gap := hub.since(15); gap {
		t.Error("resume from just before the oldest entry is complete")
	}
	if _, gap := hub.since(14); !gap {
		t.Error("resume from before the oldest entry should report a gap")
	}
}

func TestSSEHub_ReplayIsStable(t *testing.T) {
	hub := newSSEHubSize(2)
	hub.broadcast(events.TopicChartMounted, "ch-1", []byte(`{"n":1}`))
	evts, _ := hub.since(0)
	hub.broadcast(events.TopicChartRevealed, "ch-1", []byte(`{"n":2}`))
	hub.broadcast(events.TopicChartDisposed, "ch-1", []byte(`{"n":3}`))

	if string(evts[0].Data) != `{"n":1}` {
		t.Fatalf("replayed event changed after the ring wrapped: %s", evts[0].Data)
	}
}

// stream runs the event stream handler until stop is called and returns the body.
func stream(t *testing.T, h http.Handler, target string, header http.Header) (rec *httptest.ResponseRecorder, stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
	for k, v := range header {
		req.Header[k] = v
	}
	rec = httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(rec, req)
	}()
	// Give the handler time to register its subscription.
	time.Sleep(50 * time.Millisecond)
	return rec, func() {
		cancel()
		<-done
	}
}

func TestHandleEventStream_SSE(t *testing.T) {
	srv, _, handler := newTestServer()

	rec, stop := stream(t, handler, "/v1/events/stream", nil)
	srv.sseHub.broadcast(events.TopicChartMounted, "ch-sse1", []byte(`{"chart_id":"ch-sse1"}`))
	time.Sleep(50 * time.Millisecond)
	stop()

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected Content-Type=text/event-stream, got %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "retry:3000\n\n") {
		t.Fatalf("expected retry hint first, got:\n%s", body)
	}
	if !strings.Contains(body, "id:1\nevent:reveal.chart.mounted\ndata:{\"chart_id\":\"ch-sse1\"}\n\n") {
		t.Fatalf("missing event frame, got:\n%s", body)
	}
}

func TestHandleEventStream_Filters(t *testing.T) {
	srv, _, handler := newTestServer()

	rec, stop := stream(t, handler, "/v1/events/stream?topics=reveal.chart.revealed,%20reveal.chart.disposed&chart=ch-2", nil)
	srv.sseHub.broadcast(events.TopicChartMounted, "ch-2", []byte(`{"n":1}`))
	srv.sseHub.broadcast(events.TopicChartRevealed, "ch-1", []byte(`{"n":2}`))
	srv.sseHub.broadcast(events.TopicChartRevealed, "ch-2", []byte(`{"n":3}`))
	srv.sseHub.broadcast(events.TopicChartDisposed, "ch-2", []byte(`{"n":4}`))
	time.Sleep(50 * time.Millisecond)
	stop()

	body := rec.Body.String()
	for _, bad := range []string{`{"n":1}`, `{"n":2}`} {
		if strings.Contains(body, bad) {
			t.Errorf("expected %s filtered out, got:\n%s", bad, body)
		}
	}
	for _, good := range []string{`{"n":3}`, `{"n":4}`} {
		if !strings.Contains(body, good) {
			t.Errorf("expected %s in body, got:\n%s", good, body)
		}
	}
}

func TestHandleEventStream_LastEventID(t *testing.T) {
	srv, _, handler := newTestServer()
	srv.sseHub.broadcast(events.TopicChartMounted, "ch-1", []byte(`{"n":1}`))
	srv.sseHub.broadcast(events.TopicChartRevealed, "ch-1", []byte(`{"n":2}`))
	srv.sseHub.broadcast(events.TopicChartDisposed, "ch-1", []byte(`{"n":3}`))

	for name, resume := range map[string]struct {
		target string
		header http.Header
	}{
		"header": {"/v1/events/stream", http.Header{"Last-Event-Id": {"1"}}},
		"query":  {"/v1/events/stream?last_event_id=1", nil},
	} {
		t.Run(name, func(t *testing.T) {
			rec, stop := stream(t, handler, resume.target, resume.header)
			stop()

			body := rec.Body.String()
			if strings.Contains(body, `data:{"n":1}`) {
				t.Fatalf("expected event 1 to be skipped, got:\n%s", body)
			}
			if !strings.Contains(body, `data:{"n":2}`) || !strings.Contains(body, `data:{"n":3}`) {
				t.Fatalf("expected events 2 and 3, got:\n%s", body)
			}
			if strings.Contains(body, topicStreamGap) {
				t.Fatalf("unexpected gap event, got:\n%s", body)
			}
		})
	}
}

func TestHandleEventStream_Gap(t *testing.T) {
	srv, _, handler := newTestServer()
	srv.sseHub.broadcast(events.TopicChartMounted, "ch-1", []byte(`{}`))

	rec, stop := stream(t, handler, "/v1/events/stream", http.Header{"Last-Event-Id": {"40"}})
	stop()

	if !strings.Contains(rec.Body.String(), "event:"+topicStreamGap+"\ndata:{\"last_event_id\":40}\n\n") {
		t.Fatalf("expected gap event, got:\n%s", rec.Body.String())
	}
}

func TestHandleEventStream_BadLastEventID(t *testing.T) {
	_, _, handler := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/stream?last_event_id=abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleEventStream_Publisher(t *testing.T) {
	srv, _, handler := newTestServer()

	rec, stop := stream(t, handler, "/v1/events/stream?chart=ch-sse-rp", nil)
	_ = srv.publisher.Publish(context.Background(), events.TopicChartRevealed,
		events.ChartRevealed{ChartID: "ch-sse-rp", Kind: "gauge", SettleMs: 900})
	_ = srv.publisher.Publish(context.Background(), events.TopicChartRevealed,
		events.ChartRevealed{ChartID: "ch-other", Kind: "bars", SettleMs: 1370})
	time.Sleep(50 * time.Millisecond)
	stop()

	body := rec.Body.String()
	if !strings.Contains(body, `"chart_id":"ch-sse-rp"`) {
		t.Fatalf("expected published event, got:\n%s", body)
	}
	if strings.Contains(body, "ch-other") {
		t.Fatalf("chart filter should use the published chart id, got:\n%s", body)
	}
}

func TestHandleEventStream_MultipleClients(t *testing.T) {
	srv, _, handler := newTestServer()

	rec1, stop1 := stream(t, handler, "/v1/events/stream", nil)
	rec2, stop2 := stream(t, handler, "/v1/events/stream", nil)
	srv.sseHub.broadcast(events.TopicChartMounted, "ch-multi", []byte(`{"chart_id":"ch-multi"}`))
	time.Sleep(50 * time.Millisecond)
	stop1()
	stop2()

	for i, rec := range []*httptest.ResponseRecorder{rec1, rec2} {
		if !strings.Contains(rec.Body.String(), "ch-multi") {
			t.Fatalf("client %d: expected chart event, got:\n%s", i+1, rec.Body.String())
		}
	}
}

func TestSSEEventFormat(t *testing.T) {
	srv, _, handler := newTestServer()

	rec, stop := stream(t, handler, "/v1/events/stream", nil)
	srv.sseHub.broadcast(events.TopicChartMounted, "ch-fmt", []byte(`{"chart_id":"ch-fmt"}`))
	time.Sleep(50 * time.Millisecond)
	stop()

	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	var id, event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "id:"):
			id = strings.TrimPrefix(line, "id:")
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimPrefix(line, "data:")
		}
	}
	if id != "1" {
		t.Fatalf("expected id 1, got %q", id)
	}
	if event != events.TopicChartMounted {
		t.Fatalf("expected event=%s, got %q", events.TopicChartMounted, event)
	}
	if !json.Valid([]byte(data)) || data != `{"chart_id":"ch-fmt"}` {
		t.Fatalf("unexpected data %q", data)
	}
}
