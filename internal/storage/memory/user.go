package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VitaminP8/threadery/internal/user"
	"github.com/VitaminP8/threadery/models"
)

type UserMemoryStorage struct {
	store *Store
}

func NewUserMemoryStorage(store *Store) *UserMemoryStorage {
	return &UserMemoryStorage{store: store}
}

func (s *UserMemoryStorage) UpsertUser(ctx context.Context, params user.UpsertUserParams) (*models.User, error) {
	if params.UserID == "" {
		return nil, fmt.Errorf("user id is required: %w", models.ErrValidation)
	}
	if params.Username == "" {
		return nil, fmt.Errorf("username is required: %w", models.ErrValidation)
	}

	username := strings.ToLower(params.Username)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	// имитация уникального индекса по username
	for id, existing := range s.store.users {
		if id != params.UserID && existing.Username == username {
			return nil, fmt.Errorf("username %q is already taken: %w", username, models.ErrValidation)
		}
	}

	u, exists := s.store.users[params.UserID]
	if !exists {
		u = &models.User{
			ID:        primitive.NewObjectID(),
			UserID:    params.UserID,
			Threads:   []primitive.ObjectID{},
			CreatedAt: time.Now(),
		}
		s.store.users[params.UserID] = u
	}

	u.Username = username
	u.Name = params.Name
	u.Bio = params.Bio
	u.Image = params.Image
	u.Onboarded = true

	return u, nil
}

func (s *UserMemoryStorage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, exists := s.store.users[userID]
	if !exists {
		return nil, nil
	}
	return u, nil
}

func (s *UserMemoryStorage) GetUserThreads(ctx context.Context, userID string) (*models.UserThreads, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, exists := s.store.users[userID]
	if !exists {
		return nil, fmt.Errorf("user with ID %s: %w", userID, models.ErrNotFound)
	}

	// Посты пользователя в порядке его списка, дети раскрыты на один
	// уровень с авторами (глубже UI не показывает без дозапроса).
	threads := make([]*models.ThreadNode, 0, len(u.Threads))
	for _, threadID := range u.Threads {
		t, ok := s.store.threads[threadID.Hex()]
		if !ok {
			continue
		}
		threads = append(threads, s.store.node(t, 1))
	}

	return &models.UserThreads{User: u, Threads: threads}, nil
}

func (s *UserMemoryStorage) SearchUsers(ctx context.Context, params user.SearchUsersParams) (*models.UserConnection, error) {
	pageNumber := params.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var matched []*models.User
	for _, u := range s.store.users {
		if u.UserID == params.UserID {
			continue // запрашивающий исключается из результатов
		}
		if matchesSearch(u, params.SearchString) {
			matched = append(matched, u)
		}
	}

	asc := params.SortOrder == "asc"
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			if asc {
				return matched[i].UserID < matched[j].UserID
			}
			return matched[i].UserID > matched[j].UserID
		}
		if asc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	skip := (pageNumber - 1) * pageSize
	if skip >= len(matched) {
		return &models.UserConnection{Items: []*models.User{}, HasMore: false}, nil
	}

	end := skip + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	items := matched[skip:end]

	return &models.UserConnection{
		Items:   items,
		HasMore: len(matched) > skip+len(items),
	}, nil
}
