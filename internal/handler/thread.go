package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VitaminP8/threadery/internal/auth"
	"github.com/VitaminP8/threadery/internal/thread"
	"github.com/VitaminP8/threadery/models"
)

// defaultDepth - сколько уровней ответов раскрывается при запросе треда.
// maxDepth ограничивает параметр depth сверху, чтобы клиент не раскрутил
// рекурсию на произвольную глубину.
const (
	defaultDepth = 2
	maxDepth     = 5
)

type createThreadRequest struct {
	Text        string  `json:"text"`
	CommunityID *string `json:"communityId"`
	Path        string  `json:"path"`
}

type threadResponse struct {
	Thread     *models.Thread `json:"thread"`
	Revalidate string         `json:"revalidate,omitempty"`
}

// CreateThread - POST /api/threads
func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	t, err := h.ThreadStore.CreateThread(r.Context(), thread.CreateThreadParams{
		Text:        req.Text,
		AuthorID:    userID,
		CommunityID: req.CommunityID,
		Path:        req.Path,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, threadResponse{Thread: t, Revalidate: req.Path})
}

// GetThreads - GET /api/threads?page=&size=
func (h *Handler) GetThreads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	conn, err := h.ThreadStore.GetThreads(r.Context(), queryInt(q.Get("page"), 1), queryInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conn)
}

// GetThreadByID - GET /api/threads/{id}?depth=
func (h *Handler) GetThreadByID(w http.ResponseWriter, r *http.Request) {
	depth := queryInt(r.URL.Query().Get("depth"), defaultDepth)
	if depth > maxDepth {
		depth = maxDepth
	}

	node, err := h.ThreadStore.GetThreadByID(r.Context(), chi.URLParam(r, "id"), depth)
	if err != nil {
		writeError(w, err)
		return
	}
	if node == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "thread not found"})
		return
	}

	writeJSON(w, http.StatusOK, node)
}

type addCommentRequest struct {
	Text string `json:"text"`
	Path string `json:"path"`
}

// AddComment - POST /api/threads/{id}/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	t, err := h.ThreadStore.AddComment(r.Context(), thread.AddCommentParams{
		ThreadID:    chi.URLParam(r, "id"),
		CommentText: req.Text,
		AuthorID:    userID,
		Path:        req.Path,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, threadResponse{Thread: t, Revalidate: req.Path})
}
