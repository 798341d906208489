package user

import (
	"context"

	"github.com/VitaminP8/threadery/models"
)

// UpsertUserParams - параметры идемпотентного обновления профиля.
// Path - непрозрачная подсказка инвалидации кеша для presentation-слоя,
// хранилище ее не интерпретирует.
type UpsertUserParams struct {
	UserID   string
	Username string
	Name     string
	Bio      string
	Image    string
	Path     string
}

// SearchUsersParams - параметры поиска с пагинацией skip/limit.
type SearchUsersParams struct {
	UserID       string // исключается из результатов
	SearchString string
	PageNumber   int // с 1
	PageSize     int
	SortOrder    string // "asc" | "desc", по created_at
}

type UserStorage interface {
	UpsertUser(ctx context.Context, params UpsertUserParams) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error) // nil, nil если не найден
	GetUserThreads(ctx context.Context, userID string) (*models.UserThreads, error)
	SearchUsers(ctx context.Context, params SearchUsersParams) (*models.UserConnection, error)
}
