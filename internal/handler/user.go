package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VitaminP8/threadery/internal/auth"
	"github.com/VitaminP8/threadery/internal/user"
	"github.com/VitaminP8/threadery/models"
)

type upsertUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Path     string `json:"path"`
}

type upsertUserResponse struct {
	User *models.User `json:"user"`
	// Revalidate - path-подсказка инвалидации кеша, возвращается как есть
	Revalidate string `json:"revalidate,omitempty"`
}

// UpsertUser - POST /api/users
// Идентификатор берется из контекста (identity provider), не из тела.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req upsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	u, err := h.UserStore.UpsertUser(r.Context(), user.UpsertUserParams{
		UserID:   userID,
		Username: req.Username,
		Name:     req.Name,
		Bio:      req.Bio,
		Image:    req.Image,
		Path:     req.Path,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, upsertUserResponse{User: u, Revalidate: req.Path})
}

// GetUser - GET /api/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserStore.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		// хранилище возвращает nil без ошибки, 404 - решение HTTP-слоя
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// GetUserThreads - GET /api/users/{id}/threads
func (h *Handler) GetUserThreads(w http.ResponseWriter, r *http.Request) {
	ut, err := h.UserStore.GetUserThreads(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ut)
}

// SearchUsers - GET /api/users?search=&page=&size=&sort=
// Запрашивающий пользователь исключается из результатов.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	q := r.URL.Query()

	conn, err := h.UserStore.SearchUsers(r.Context(), user.SearchUsersParams{
		UserID:       userID,
		SearchString: q.Get("search"),
		PageNumber:   queryInt(q.Get("page"), 1),
		PageSize:     queryInt(q.Get("size"), 20),
		SortOrder:    q.Get("sort"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conn)
}

func queryInt(value string, def int) int {
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return def
	}
	return n
}
