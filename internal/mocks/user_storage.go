package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VitaminP8/threadery/internal/user"
	"github.com/VitaminP8/threadery/models"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования.
// Err, если задана, возвращается из всех методов (для проверки маппинга ошибок).
type MockUserStorage struct {
	mu          sync.Mutex
	Err         error
	users       map[string]*models.User // user_id -> user
	userThreads map[string]*models.UserThreads
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:       make(map[string]*models.User),
		userThreads: make(map[string]*models.UserThreads),
	}
}

func (m *MockUserStorage) UpsertUser(ctx context.Context, params user.UpsertUserParams) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user id is required: %w", models.ErrValidation)
	}
	if params.Username == "" {
		return nil, fmt.Errorf("username is required: %w", models.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, exists := m.users[params.UserID]
	if !exists {
		u = &models.User{
			ID:        primitive.NewObjectID(),
			UserID:    params.UserID,
			Threads:   []primitive.ObjectID{},
			CreatedAt: time.Now(),
		}
		m.users[params.UserID] = u
	}

	u.Username = strings.ToLower(params.Username)
	u.Name = params.Name
	u.Bio = params.Bio
	u.Image = params.Image
	u.Onboarded = true

	return u, nil
}

func (m *MockUserStorage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, exists := m.users[userID]
	if !exists {
		return nil, nil
	}
	return u, nil
}

func (m *MockUserStorage) GetUserThreads(ctx context.Context, userID string) (*models.UserThreads, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ut, exists := m.userThreads[userID]
	if !exists {
		u, ok := m.users[userID]
		if !ok {
			return nil, fmt.Errorf("user with ID %s: %w", userID, models.ErrNotFound)
		}
		return &models.UserThreads{User: u, Threads: []*models.ThreadNode{}}, nil
	}
	return ut, nil
}

func (m *MockUserStorage) SearchUsers(ctx context.Context, params user.SearchUsersParams) (*models.UserConnection, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	pageNumber := params.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(params.SearchString))

	var matched []*models.User
	for _, u := range m.users {
		if u.UserID == params.UserID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		if params.SortOrder == "asc" {
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

// SetUserThreads вспомогательный метод для тестирования
func (m *MockUserStorage) SetUserThreads(userID string, ut *models.UserThreads) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userThreads[userID] = ut
}
