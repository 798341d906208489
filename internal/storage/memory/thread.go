package memory

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VitaminP8/threadery/internal/subscription"
	"github.com/VitaminP8/threadery/internal/thread"
	"github.com/VitaminP8/threadery/models"
)

type ThreadMemoryStorage struct {
	store   *Store
	manager subscription.Manager
}

func NewThreadMemoryStorage(store *Store, manager subscription.Manager) *ThreadMemoryStorage {
	return &ThreadMemoryStorage{store: store, manager: manager}
}

func (s *ThreadMemoryStorage) CreateThread(ctx context.Context, params thread.CreateThreadParams) (*models.Thread, error) {
	if params.Text == "" {
		return nil, fmt.Errorf("thread text is required: %w", models.ErrValidation)
	}
	if params.AuthorID == "" {
		return nil, fmt.Errorf("thread author is required: %w", models.ErrValidation)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t := &models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      params.Text,
		Author:    params.AuthorID,
		Community: nil, // сообщества пока не включены, пишем null независимо от params
		ParentID:  nil,
		Children:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	s.store.threads[t.ID.Hex()] = t

	// Вторая запись: добавляем тред в список автора. Как и в mongo-бэкенде,
	// отсутствующий автор не считается ошибкой.
	if author, ok := s.store.users[params.AuthorID]; ok {
		author.Threads = append(author.Threads, t.ID)
	}

	return t, nil
}

func (s *ThreadMemoryStorage) AddComment(ctx context.Context, params thread.AddCommentParams) (*models.Thread, error) {
	if params.CommentText == "" {
		return nil, fmt.Errorf("comment text is required: %w", models.ErrValidation)
	}
	if params.AuthorID == "" {
		return nil, fmt.Errorf("comment author is required: %w", models.ErrValidation)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	parent, ok := s.store.threads[params.ThreadID]
	if !ok {
		return nil, fmt.Errorf("thread with ID %s: %w", params.ThreadID, models.ErrNotFound)
	}

	parentID := params.ThreadID
	reply := &models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      params.CommentText,
		Author:    params.AuthorID,
		Community: nil,
		ParentID:  &parentID,
		Children:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	s.store.threads[reply.ID.Hex()] = reply

	// Двусторонняя связь: id ответа попадает в children родителя
	parent.Children = append(parent.Children, reply.ID)

	if s.manager != nil {
		s.manager.Publish(params.ThreadID, s.store.node(reply, 0))
	}

	return reply, nil
}

func (s *ThreadMemoryStorage) GetThreads(ctx context.Context, pageNumber, pageSize int) (*models.ThreadConnection, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	// Только корневые треды
	var roots []*models.Thread
	for _, t := range s.store.threads {
		if t.IsTopLevel() {
			roots = append(roots, t)
		}
	}

	sortThreadsDesc(roots)

	skip := (pageNumber - 1) * pageSize
	if skip >= len(roots) {
		return &models.ThreadConnection{Items: []*models.ThreadNode{}, HasMore: false}, nil
	}

	end := skip + pageSize
	if end > len(roots) {
		end = len(roots)
	}

	items := make([]*models.ThreadNode, 0, end-skip)
	for _, t := range roots[skip:end] {
		// автор + прямые дети с их авторами, внуки не раскрываются
		items = append(items, s.store.node(t, 1))
	}

	return &models.ThreadConnection{
		Items:   items,
		HasMore: len(roots) > skip+len(items),
	}, nil
}

func (s *ThreadMemoryStorage) GetThreadByID(ctx context.Context, id string, depth int) (*models.ThreadNode, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, ok := s.store.threads[id]
	if !ok {
		return nil, nil
	}

	return s.store.node(t, depth), nil
}
