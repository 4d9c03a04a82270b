// Package events streams change notifications to clients over
// server-sent events. Clients treat every event as a re-read hint.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pennyjar/pennyjar/internal/notify"
)

const keepAliveInterval = 25 * time.Second

type Handler struct {
	notifier notify.Notifier
}

func NewHandler(notifier notify.Notifier) *Handler {
	return &Handler{notifier: notifier}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.stream)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = notify.DefaultScope
	}

	// Dropping events when the client reads too slowly is fine: events are
	// hints, and the client re-reads the full state on each one anyway.
	events := make(chan notify.Event, 16)

	unsubscribe := h.notifier.Subscribe(scope, func(ev notify.Event) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case ev := <-events:
			body, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode event", "error", err)
				continue
			}

			fmt.Fprintf(w, "event: change\ndata: %s\n\n", body)
			flusher.Flush()
		}
	}
}
