package thread

import (
	"context"

	"github.com/VitaminP8/threadery/models"
)

// CreateThreadParams - параметры создания корневого поста.
// CommunityID принимается, но пока всегда пишется как null
// (заглушка под сообщества). Path - подсказка инвалидации кеша.
type CreateThreadParams struct {
	Text        string
	AuthorID    string
	CommunityID *string
	Path        string
}

// AddCommentParams - параметры ответа на существующий тред.
type AddCommentParams struct {
	ThreadID    string
	CommentText string
	AuthorID    string
	Path        string
}

type ThreadStorage interface {
	CreateThread(ctx context.Context, params CreateThreadParams) (*models.Thread, error)
	AddComment(ctx context.Context, params AddCommentParams) (*models.Thread, error)
	// GetThreads возвращает страницу корневых тредов, новые сверху.
	GetThreads(ctx context.Context, pageNumber, pageSize int) (*models.ThreadConnection, error)
	// GetThreadByID раскрывает детей рекурсивно до depth уровней,
	// nil, nil если тред не найден.
	GetThreadByID(ctx context.Context, id string, depth int) (*models.ThreadNode, error)
}
