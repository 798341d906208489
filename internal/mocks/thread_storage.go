package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/VitaminP8/threadery/internal/thread"
	"github.com/VitaminP8/threadery/models"
)

// MockThreadStorage реализует интерфейс thread.ThreadStorage для тестирования.
// Err, если задана, возвращается из всех методов.
type MockThreadStorage struct {
	mu      sync.Mutex
	Err     error
	nodes   map[string]*models.ThreadNode // канонические узлы по id
	roots   []*models.ThreadNode          // порядок выдачи GetThreads
	Created []*models.Thread              // записанные вызовы CreateThread/AddComment
}

func NewMockThreadStorage() *MockThreadStorage {
	return &MockThreadStorage{
		nodes: make(map[string]*models.ThreadNode),
	}
}

func (m *MockThreadStorage) CreateThread(ctx context.Context, params thread.CreateThreadParams) (*models.Thread, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if params.Text == "" {
		return nil, fmt.Errorf("thread text is required: %w", models.ErrValidation)
	}
	if params.AuthorID == "" {
		return nil, fmt.Errorf("thread author is required: %w", models.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := &models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      params.Text,
		Author:    params.AuthorID,
		Community: nil,
		Children:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	m.Created = append(m.Created, t)

	node := &models.ThreadNode{
		ID:        t.ID.Hex(),
		Text:      t.Text,
		AuthorID:  t.Author,
		CreatedAt: t.CreatedAt,
		Children:  []*models.ThreadNode{},
	}
	m.nodes[node.ID] = node
	m.roots = append([]*models.ThreadNode{node}, m.roots...) // новые сверху

	return t, nil
}

func (m *MockThreadStorage) AddComment(ctx context.Context, params thread.AddCommentParams) (*models.Thread, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if params.CommentText == "" {
		return nil, fmt.Errorf("comment text is required: %w", models.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.nodes[params.ThreadID]
	if !ok {
		return nil, fmt.Errorf("thread with ID %s: %w", params.ThreadID, models.ErrNotFound)
	}

	parentID := params.ThreadID
	t := &models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      params.CommentText,
		Author:    params.AuthorID,
		ParentID:  &parentID,
		Children:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	m.Created = append(m.Created, t)

	node := &models.ThreadNode{
		ID:        t.ID.Hex(),
		Text:      t.Text,
		AuthorID:  t.Author,
		ParentID:  &parentID,
		CreatedAt: t.CreatedAt,
		Children:  []*models.ThreadNode{},
	}
	m.nodes[node.ID] = node
	parent.Children = append(parent.Children, node)
	parent.HasReplies = true

	return t, nil
}

func (m *MockThreadStorage) GetThreads(ctx context.Context, pageNumber, pageSize int) (*models.ThreadConnection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	skip := (pageNumber - 1) * pageSize
	if skip >= len(m.roots) {
		return &models.ThreadConnection{Items: []*models.ThreadNode{}, HasMore: false}, nil
	}

	end := skip + pageSize
	if end > len(m.roots) {
		end = len(m.roots)
	}
	items := m.roots[skip:end]

	return &models.ThreadConnection{
		Items:   items,
		HasMore: len(m.roots) > skip+len(items),
	}, nil
}

func (m *MockThreadStorage) GetThreadByID(ctx context.Context, id string, depth int) (*models.ThreadNode, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	return node, nil
}

// AddNode вспомогательный метод для тестирования - кладет готовый узел
func (m *MockThreadStorage) AddNode(node *models.ThreadNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[node.ID] = node
	if node.ParentID == nil {
		m.roots = append([]*models.ThreadNode{node}, m.roots...)
	}
}
