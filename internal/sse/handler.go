package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ms-restaurant/internal/logger"
)

const keepAliveInterval = 30 * time.Second

type Handler struct {
	Emitter *OrderEventEmitter
	Logger  *logger.Logger
}

func NewHandler(emitter *OrderEventEmitter, log *logger.Logger) *Handler {
	return &Handler{Emitter: emitter, Logger: log}
}

// StreamOrderEvents handles GET /api/events[?table=n]
func (h *Handler) StreamOrderEvents(w http.ResponseWriter, r *http.Request) {
	tableID := 0
	if raw := r.URL.Query().Get("table"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid table", http.StatusBadRequest)
			return
		}
		tableID = parsed
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	events := h.Emitter.Subscribe(ctx, tableID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"table\":%d}\n\n", tableID)
	flusher.Flush()
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to order events (table %d)", tableID))

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize order event: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from order events (table %d)", tableID))
			return
		}
	}
}
