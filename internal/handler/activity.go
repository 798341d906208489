package handler

import (
	"net/http"

	"github.com/VitaminP8/threadery/internal/auth"
	"github.com/VitaminP8/threadery/models"
)

type activityResponse struct {
	Replies []*models.ThreadNode `json:"replies"`
}

// GetActivity - GET /api/activity
// Ответы других пользователей на треды запрашивающего, новые сверху.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	replies, err := h.ActivityStore.GetActivity(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{Replies: replies})
}
