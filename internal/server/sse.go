package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alfredjeanlab/reveal/internal/events"
)

// Chart lifecycle events reach browsers as server-sent events. The hub keeps
// a bounded history so a page that reconnects resumes from Last-Event-ID
// instead of re-listing every chart.
const (
	streamHistory   = 1000
	streamBuffer    = 64
	streamKeepalive = 15 * time.Second
	streamRetry     = 3 * time.Second

	// topicStreamGap replaces the replay when the requested id is no longer
	// in the history, telling the client to resync from GET /v1/charts.
	topicStreamGap = "reveal.stream.gap"
)

// streamEvent is one sequenced lifecycle event.
type streamEvent struct {
	Seq     uint64
	Topic   string
	ChartID string
	Data    []byte
}

// streamFilter selects events for one client. A zero filter matches all.
type streamFilter struct {
	topics  []string // NATS-style patterns
	chartID string
}

func (f streamFilter) match(e *streamEvent) bool {
	if f.chartID != "" && e.ChartID != f.chartID {
		return false
	}
	if len(f.topics) == 0 {
		return true
	}
	for _, p := range f.topics {
		if events.Match(p, e.Topic) {
			return true
		}
	}
	return false
}

type streamClient struct {
	filter streamFilter
	ch     chan *streamEvent
}

// sseHub sequences events, records them, and fans them out. One lock covers
// history and clients so a subscriber's replay and live feed never overlap
// or leave a hole.
type sseHub struct {
	mu      sync.Mutex
	seq     uint64
	history []streamEvent // ring of at most cap entries
	head    int           // oldest entry once the ring is full
	clients map[*streamClient]struct{}
	dropped atomic.Uint64
}

func newSSEHub() *sseHub {
	return newSSEHubSize(streamHistory)
}

func newSSEHubSize(n int) *sseHub {
	return &sseHub{
		history: make([]streamEvent, 0, n),
		clients: make(map[*streamClient]struct{}),
	}
}

// broadcast records an event and offers it to every matching client. A
// client whose buffer is full misses the event; the publisher never blocks.
func (h *sseHub) broadcast(topic, chartID string, data []byte) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	e := streamEvent{Seq: h.seq, Topic: topic, ChartID: chartID, Data: data}
	if len(h.history) < cap(h.history) {
		h.history = append(h.history, e)
	} else {
		h.history[h.head] = e
		h.head = (h.head + 1) % len(h.history)
	}

	for c := range h.clients {
		if !c.filter.match(&e) {
			continue
		}
		select {
		case c.ch <- &e:
		default:
			h.dropped.Add(1)
		}
	}
	return e.Seq
}

// subscribe registers a client. With resume set it also returns the recorded
// events after lastSeq that match the filter; gap reports that some of them
// have already left the history.
func (h *sseHub) subscribe(f streamFilter, resume bool, lastSeq uint64) (c *streamClient, replay []*streamEvent, gap bool) {
	c = &streamClient{filter: f, ch: make(chan *streamEvent, streamBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if resume {
		var all []*streamEvent
		all, gap = h.sinceLocked(lastSeq)
		for _, e := range all {
			if f.match(e) {
				replay = append(replay, e)
			}
		}
	}
	h.clients[c] = struct{}{}
	return c, replay, gap
}

func (h *sseHub) unsubscribe(c *streamClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// since returns the recorded events after lastSeq, oldest first.
func (h *sseHub) since(lastSeq uint64) ([]*streamEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sinceLocked(lastSeq)
}

func (h *sseHub) sinceLocked(lastSeq uint64) (out []*streamEvent, gap bool) {
	if lastSeq > h.seq {
		// The client saw a previous server's sequence.
		return nil, true
	}
	n := len(h.history)
	if n == 0 {
		return nil, false
	}
	oldest := h.history[h.head].Seq
	gap = lastSeq+1 < oldest
	for i := range n {
		if e := h.history[(h.head+i)%n]; e.Seq > lastSeq {
			out = append(out, &e)
		}
	}
	return out, gap
}

// handleEventStream handles GET /v1/events/stream.
//
// Query parameters: topics (comma-separated patterns), chart (one chart id),
// last_event_id (resume point for clients that cannot set Last-Event-ID).
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	q := r.URL.Query()
	f := streamFilter{chartID: q.Get("chart")}
	for t := range strings.SplitSeq(q.Get("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			f.topics = append(f.topics, t)
		}
	}

	resumeFrom := r.Header.Get("Last-Event-ID")
	if resumeFrom == "" {
		resumeFrom = q.Get("last_event_id")
	}
	var (
		resume  bool
		lastSeq uint64
	)
	if resumeFrom != "" {
		n, err := strconv.ParseUint(resumeFrom, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid last event id "+strconv.Quote(resumeFrom))
			return
		}
		resume, lastSeq = true, n
	}

	client, replay, gap := s.sseHub.subscribe(f, resume, lastSeq)
	defer s.sseHub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry:%d\n\n", streamRetry.Milliseconds())

	if gap {
		data, _ := json.Marshal(map[string]uint64{"last_event_id": lastSeq})
		fmt.Fprintf(w, "event:%s\ndata:%s\n\n", topicStreamGap, data)
	}
	for _, e := range replay {
		writeStreamEvent(w, e)
	}
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-client.ch:
			writeStreamEvent(w, e)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeStreamEvent(w http.ResponseWriter, e *streamEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", e.Seq, e.Topic, e.Data)
}
