package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitaminP8/threadery/internal/user"
	"github.com/VitaminP8/threadery/models"
)

func upsertParams(userID, username string) user.UpsertUserParams {
	return user.UpsertUserParams{
		UserID:   userID,
		Username: username,
		Name:     "Test User",
		Bio:      "test bio",
		Image:    "https://example.com/avatar.png",
		Path:     "/profile/edit",
	}
}

func TestUserMemoryStorage_UpsertUser(t *testing.T) {
	storage := NewUserMemoryStorage(NewStore())
	ctx := context.Background()

	t.Run("Successful user creation", func(t *testing.T) {
		u, err := storage.UpsertUser(ctx, upsertParams("user_1", "TestUser"))
		require.NoError(t, err)

		// username приводится к нижнему регистру, onboarded выставляется
		assert.Equal(t, "user_1", u.UserID)
		assert.Equal(t, "testuser", u.Username)
		assert.True(t, u.Onboarded)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("Upsert is idempotent and updates in place", func(t *testing.T) {
		first, err := storage.UpsertUser(ctx, upsertParams("user_2", "SecondUser"))
		require.NoError(t, err)
		createdAt := first.CreatedAt

		params := upsertParams("user_2", "RenamedUser")
		params.Bio = "new bio"
		updated, err := storage.UpsertUser(ctx, params)
		require.NoError(t, err)

		assert.Equal(t, "renameduser", updated.Username)
		assert.Equal(t, "new bio", updated.Bio)
		// created_at и внутренний id не меняются при обновлении
		assert.Equal(t, createdAt, updated.CreatedAt)
		assert.Equal(t, first.ID, updated.ID)

		fetched, err := storage.GetUser(ctx, "user_2")
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "renameduser", fetched.Username)
	})

	t.Run("Error when user id is missing", func(t *testing.T) {
		_, err := storage.UpsertUser(ctx, upsertParams("", "nouser"))
		assert.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("Error when username is missing", func(t *testing.T) {
		_, err := storage.UpsertUser(ctx, upsertParams("user_3", ""))
		assert.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("Error when username is taken by another user", func(t *testing.T) {
		_, err := storage.UpsertUser(ctx, upsertParams("user_4", "uniquename"))
		require.NoError(t, err)

		_, err = storage.UpsertUser(ctx, upsertParams("user_5", "UniqueName"))
		assert.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "already taken")
	})
}

func TestUserMemoryStorage_GetUser(t *testing.T) {
	storage := NewUserMemoryStorage(NewStore())
	ctx := context.Background()

	t.Run("Returns nil without error when user is absent", func(t *testing.T) {
		u, err := storage.GetUser(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("Returns stored user", func(t *testing.T) {
		_, err := storage.UpsertUser(ctx, upsertParams("user_1", "someone"))
		require.NoError(t, err)

		u, err := storage.GetUser(ctx, "user_1")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "someone", u.Username)
	})
}

func TestUserMemoryStorage_GetUserThreads(t *testing.T) {
	store := NewStore()
	userStorage := NewUserMemoryStorage(store)
	threadStorage := NewThreadMemoryStorage(store, nil)
	ctx := context.Background()

	_, err := userStorage.UpsertUser(ctx, upsertParams("author", "author"))
	require.NoError(t, err)
	_, err = userStorage.UpsertUser(ctx, upsertParams("replier", "replier"))
	require.NoError(t, err)

	t.Run("Error when user is absent", func(t *testing.T) {
		_, err := userStorage.GetUserThreads(ctx, "missing")
		assert.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Returns user threads with populated reply authors", func(t *testing.T) {
		created, err := threadStorage.CreateThread(ctx, threadParams("author", "hello world"))
		require.NoError(t, err)

		_, err = threadStorage.AddComment(ctx, commentParams("replier", created.ID.Hex(), "nice post"))
		require.NoError(t, err)

		ut, err := userStorage.GetUserThreads(ctx, "author")
		require.NoError(t, err)
		require.NotNil(t, ut.User)
		assert.Equal(t, "author", ut.User.UserID)

		require.Len(t, ut.Threads, 1)
		node := ut.Threads[0]
		assert.Equal(t, created.ID.Hex(), node.ID)
		require.Len(t, node.Children, 1)

		reply := node.Children[0]
		assert.Equal(t, "nice post", reply.Text)
		require.NotNil(t, reply.Author)
		assert.Equal(t, "replier", reply.Author.ID)
		// внуки на этом уровне не раскрываются
		assert.Empty(t, reply.Children)
	})
}

func TestUserMemoryStorage_SearchUsers(t *testing.T) {
	storage := NewUserMemoryStorage(NewStore())
	ctx := context.Background()

	// Создаем пользователей для поиска
	names := map[string]string{
		"u_alice": "Alice Johnson",
		"u_bob":   "Bob Smith",
		"u_carol": "Carol Alison",
		"u_dave":  "Dave Brown",
	}
	for id, name := range names {
		params := upsertParams(id, id[2:])
		params.Name = name
		_, err := storage.UpsertUser(ctx, params)
		require.NoError(t, err)
	}

	t.Run("Excludes the requesting user", func(t *testing.T) {
		conn, err := storage.SearchUsers(ctx, user.SearchUsersParams{UserID: "u_alice"})
		require.NoError(t, err)

		assert.Len(t, conn.Items, 3)
		for _, u := range conn.Items {
			assert.NotEqual(t, "u_alice", u.UserID)
		}
		assert.False(t, conn.HasMore)
	})

	t.Run("Case-insensitive substring match on username or name", func(t *testing.T) {
		// "ALI" матчится по username (alice) и по имени (Carol Alison)
		conn, err := storage.SearchUsers(ctx, user.SearchUsersParams{
			UserID:       "u_dave",
			SearchString: "ALI",
		})
		require.NoError(t, err)

		found := make([]string, 0, len(conn.Items))
		for _, u := range conn.Items {
			found = append(found, u.UserID)
		}
		assert.ElementsMatch(t, []string{"u_alice", "u_carol"}, found)
	})

	t.Run("Empty search string returns everyone else", func(t *testing.T) {
		conn, err := storage.SearchUsers(ctx, user.SearchUsersParams{
			UserID:       "u_bob",
			SearchString: "   ",
		})
		require.NoError(t, err)
		assert.Len(t, conn.Items, 3)
	})

	t.Run("Pagination and hasMore", func(t *testing.T) {
		page1, err := storage.SearchUsers(ctx, user.SearchUsersParams{
			UserID:     "u_alice",
			PageNumber: 1,
			PageSize:   2,
		})
		require.NoError(t, err)
		assert.Len(t, page1.Items, 2)
		assert.True(t, page1.HasMore)

		page2, err := storage.SearchUsers(ctx, user.SearchUsersParams{
			UserID:     "u_alice",
			PageNumber: 2,
			PageSize:   2,
		})
		require.NoError(t, err)
		assert.Len(t, page2.Items, 1)
		assert.False(t, page2.HasMore)

		// страницы не пересекаются и вместе дают всех
		seen := make(map[string]int)
		for _, u := range append(page1.Items, page2.Items...) {
			seen[u.UserID]++
		}
		assert.Len(t, seen, 3)
		for id, count := range seen {
			assert.Equal(t, 1, count, "user %s returned more than once", id)
		}
	})

	t.Run("Page beyond results is empty", func(t *testing.T) {
		conn, err := storage.SearchUsers(ctx, user.SearchUsersParams{
			UserID:     "u_alice",
			PageNumber: 5,
			PageSize:   20,
		})
		require.NoError(t, err)
		assert.Empty(t, conn.Items)
		assert.False(t, conn.HasMore)
	})

	t.Run("No match returns empty page", func(t *testing.T) {
		conn, err := storage.SearchUsers(ctx, user.SearchUsersParams{
			UserID:       "u_alice",
			SearchString: fmt.Sprintf("no-such-user-%d", 42),
		})
		require.NoError(t, err)
		assert.Empty(t, conn.Items)
		assert.False(t, conn.HasMore)
	})
}
