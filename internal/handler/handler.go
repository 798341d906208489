package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/VitaminP8/threadery/internal/activity"
	"github.com/VitaminP8/threadery/internal/subscription"
	"github.com/VitaminP8/threadery/internal/thread"
	"github.com/VitaminP8/threadery/internal/user"
)

// Handler служит корневой точкой для всех HTTP-обработчиков.
// Здесь внедряются зависимости - хранилища и менеджер подписок.
type Handler struct {
	UserStore           user.UserStorage
	ThreadStore         thread.ThreadStorage
	ActivityStore       activity.ActivityStorage
	SubscriptionManager subscription.Manager
}

func New(userStore user.UserStorage, threadStore thread.ThreadStorage, activityStore activity.ActivityStorage, manager subscription.Manager) *Handler {
	return &Handler{
		UserStore:           userStore,
		ThreadStore:         threadStore,
		ActivityStore:       activityStore,
		SubscriptionManager: manager,
	}
}

// Routes - серверные вызовы, которые дергает presentation-слой
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.UpsertUser)
		r.Get("/", h.SearchUsers)
		r.Get("/{id}", h.GetUser)
		r.Get("/{id}/threads", h.GetUserThreads)
	})

	r.Route("/threads", func(r chi.Router) {
		r.Post("/", h.CreateThread)
		r.Get("/", h.GetThreads)
		r.Get("/{id}", h.GetThreadByID)
		r.Post("/{id}/comments", h.AddComment)
		r.Get("/{id}/stream", h.StreamReplies)
	})

	r.Get("/activity", h.GetActivity)

	return r
}
