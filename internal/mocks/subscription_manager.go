package mocks

import (
	"sync"
	"time"

	"github.com/VitaminP8/threadery/models"
)

type MockSubscriptionManager struct {
	mu            sync.Mutex
	subs          map[string][]chan *models.ThreadNode // threadID -> список каналов подписчиков
	notifications map[string][]*models.ThreadNode      // Для отслеживания в тестах
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		subs:          make(map[string][]chan *models.ThreadNode),
		notifications: make(map[string][]*models.ThreadNode),
	}
}

func (m *MockSubscriptionManager) Subscribe(threadID string) (<-chan *models.ThreadNode, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *models.ThreadNode, 1) // Буфер 1, чтобы не блокировался писатель

	m.subs[threadID] = append(m.subs[threadID], ch)

	// функция для отписки
	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subscribers := m.subs[threadID]
		for i, sub := range subscribers {
			if sub == ch {
				// Удаляем подписчика
				m.subs[threadID] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
	}

	return ch, cancel
}

func (m *MockSubscriptionManager) Publish(threadID string, reply *models.ThreadNode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[threadID] {
		select {
		case sub <- reply:
		case <-time.After(500 * time.Millisecond):
		}
	}

	// Сохраняем уведомление для тестирования
	if _, ok := m.notifications[threadID]; !ok {
		m.notifications[threadID] = make([]*models.ThreadNode, 0)
	}
	m.notifications[threadID] = append(m.notifications[threadID], reply)
}

// GetNotificationsForThread - вспомогательный метод для тестирования,
// возвращает все уведомления для конкретного треда
func (m *MockSubscriptionManager) GetNotificationsForThread(threadID string) []*models.ThreadNode {
	m.mu.Lock()
	defer m.mu.Unlock()

	replies, ok := m.notifications[threadID]
	if !ok {
		return nil
	}
	return replies
}
