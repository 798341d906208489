package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/VitaminP8/threadery/models"
)

// Store - общее in-memory хранилище для всех репозиториев
// (аналог общей базы у mongo-бэкенда). Все операции идут под одним мьютексом.
type Store struct {
	mu      sync.Mutex
	users   map[string]*models.User   // ключ - внешний user_id
	threads map[string]*models.Thread // ключ - hex id треда
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*models.User),
		threads: make(map[string]*models.Thread),
	}
}

// summary возвращает краткий профиль автора или nil, если автор неизвестен.
// Вызывать только под мьютексом.
func (s *Store) summary(userID string) *models.UserSummary {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	return u.Summary()
}

// node собирает дерево ответов глубиной depth вокруг треда.
// depth == 0 - только сам тред с автором, дети не раскрываются
// (у них остается HasReplies, клиент может дозапросить ветку).
// Вызывать только под мьютексом.
func (s *Store) node(t *models.Thread, depth int) *models.ThreadNode {
	n := &models.ThreadNode{
		ID:         t.ID.Hex(),
		Text:       t.Text,
		AuthorID:   t.Author,
		Author:     s.summary(t.Author),
		ParentID:   t.ParentID,
		Community:  t.Community,
		CreatedAt:  t.CreatedAt,
		HasReplies: len(t.Children) > 0,
		Children:   []*models.ThreadNode{},
	}

	if depth <= 0 {
		return n
	}

	for _, childID := range t.Children {
		child, ok := s.threads[childID.Hex()]
		if !ok {
			continue
		}
		n.Children = append(n.Children, s.node(child, depth-1))
	}

	return n
}

// sortThreadsDesc сортирует по времени создания, новые сверху
// (и по ID в случае одинакового времени создания).
func sortThreadsDesc(threads []*models.Thread) {
	sort.Slice(threads, func(i, j int) bool {
		if threads[i].CreatedAt.Equal(threads[j].CreatedAt) {
			return threads[i].ID.Hex() > threads[j].ID.Hex()
		}
		return threads[i].CreatedAt.After(threads[j].CreatedAt)
	})
}

func matchesSearch(u *models.User, search string) bool {
	if strings.TrimSpace(search) == "" {
		return true
	}
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(u.Username), search) ||
		strings.Contains(strings.ToLower(u.Name), search)
}
