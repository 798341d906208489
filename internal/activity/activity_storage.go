package activity

import (
	"context"

	"github.com/VitaminP8/threadery/models"
)

// ActivityStorage собирает "активность" пользователя: ответы других
// пользователей на любой из его тредов. Собственные ответы исключаются.
// Результат отсортирован по времени создания, новые сверху.
type ActivityStorage interface {
	GetActivity(ctx context.Context, userID string) ([]*models.ThreadNode, error)
}
