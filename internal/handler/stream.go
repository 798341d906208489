package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VitaminP8/threadery/internal/logger"
)

// StreamReplies - GET /api/threads/{id}/stream
// SSE-поток новых ответов на тред. Соединение живет, пока клиент
// не отключится; отписка от менеджера происходит при закрытии.
func (h *Handler) StreamReplies(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "streaming unsupported"})
		return
	}

	threadID := chi.URLParam(r, "id")

	ch, cancel := h.SubscriptionManager.Subscribe(threadID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case reply, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(reply)
			if err != nil {
				logger.Log.WithError(err).Error("failed to encode reply event")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
