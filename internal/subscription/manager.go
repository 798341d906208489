package subscription

import (
	"sync"
	"time"

	"github.com/VitaminP8/threadery/models"
)

type SubscriptionManager struct {
	mu   sync.Mutex
	subs map[string][]chan *models.ThreadNode // threadID -> список каналов подписчиков
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[string][]chan *models.ThreadNode),
	}
}

func (m *SubscriptionManager) Subscribe(threadID string) (<-chan *models.ThreadNode, func()) {
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

func (m *SubscriptionManager) Publish(threadID string, reply *models.ThreadNode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[threadID] {
		select {
		case sub <- reply:
		case <-time.After(500 * time.Millisecond):
			// Если канал заполнен, ждем короткое время
		}
	}
}
