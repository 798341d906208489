package memory

import (
	"context"

	"github.com/VitaminP8/threadery/models"
)

type ActivityMemoryStorage struct {
	store *Store
}

func NewActivityMemoryStorage(store *Store) *ActivityMemoryStorage {
	return &ActivityMemoryStorage{store: store}
}

// GetActivity - ответы других пользователей на треды userID.
// Собственные ответы пользователя на свои же треды не считаются активностью.
func (s *ActivityMemoryStorage) GetActivity(ctx context.Context, userID string) ([]*models.ThreadNode, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	// Собираем id всех детей тредов пользователя
	childIDs := make(map[string]bool)
	for _, t := range s.store.threads {
		if t.Author != userID {
			continue
		}
		for _, childID := range t.Children {
			childIDs[childID.Hex()] = true
		}
	}

	var replies []*models.Thread
	for id := range childIDs {
		reply, ok := s.store.threads[id]
		if !ok {
			continue
		}
		if reply.Author == userID {
			continue // свои ответы исключаются
		}
		replies = append(replies, reply)
	}

	sortThreadsDesc(replies)

	result := make([]*models.ThreadNode, 0, len(replies))
	for _, reply := range replies {
		result = append(result, s.store.node(reply, 0))
	}

	return result, nil
}
