package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/threadery/models"
)

// MockActivityStorage реализует интерфейс activity.ActivityStorage для тестирования
type MockActivityStorage struct {
	mu       sync.Mutex
	Err      error
	activity map[string][]*models.ThreadNode // userID -> ответы
}

func NewMockActivityStorage() *MockActivityStorage {
	return &MockActivityStorage{
		activity: make(map[string][]*models.ThreadNode),
	}
}

func (m *MockActivityStorage) GetActivity(ctx context.Context, userID string) ([]*models.ThreadNode, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	replies, ok := m.activity[userID]
	if !ok {
		return []*models.ThreadNode{}, nil
	}
	return replies, nil
}

// SetActivity вспомогательный метод для тестирования
func (m *MockActivityStorage) SetActivity(userID string, replies []*models.ThreadNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity[userID] = replies
}
