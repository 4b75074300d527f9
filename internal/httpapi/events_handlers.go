package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"skilltrend-engine/internal/events"
)

const sseHeartbeat = 25 * time.Second

type EventsHandler struct {
	Hub       *events.Hub
	Heartbeat time.Duration // zero means sseHeartbeat
}

// ServeSSE streams hub events until the client goes away. A comment line is
// written every Heartbeat so idle proxies keep the connection open.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	every := h.Heartbeat
	if every <= 0 {
		every = sseHeartbeat
	}
	beat := time.NewTicker(every)
	defer beat.Stop()

	fmt.Fprintf(w, "retry: 3000\n")
	writeSSE(w, events.MakeEvent(RequestIDFrom(r.Context()), events.TypePing, 1, nil))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-beat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, msg)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, data string) {
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
}
