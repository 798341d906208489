package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityMemoryStorage_GetActivity(t *testing.T) {
	store := NewStore()
	userStorage := NewUserMemoryStorage(store)
	threadStorage := NewThreadMemoryStorage(store, nil)
	activityStorage := NewActivityMemoryStorage(store)
	ctx := context.Background()

	_, err := userStorage.UpsertUser(ctx, upsertParams("u1", "usera"))
	require.NoError(t, err)
	_, err = userStorage.UpsertUser(ctx, upsertParams("u2", "userb"))
	require.NoError(t, err)

	t.Run("Empty activity for user without replies", func(t *testing.T) {
		replies, err := activityStorage.GetActivity(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, replies)
	})

	t.Run("Reply from another user shows up in activity", func(t *testing.T) {
		// Сценарий: u1 создает тред, u2 отвечает
		created, err := threadStorage.CreateThread(ctx, threadParams("u1", "hello"))
		require.NoError(t, err)

		reply, err := threadStorage.AddComment(ctx, commentParams("u2", created.ID.Hex(), "hi"))
		require.NoError(t, err)

		replies, err := activityStorage.GetActivity(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, reply.ID.Hex(), replies[0].ID)
		require.NotNil(t, replies[0].Author)
		assert.Equal(t, "u2", replies[0].Author.ID)

		// у ответившего активность пустая
		otherReplies, err := activityStorage.GetActivity(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, otherReplies)
	})

	t.Run("Own replies are excluded even on own threads", func(t *testing.T) {
		created, err := threadStorage.CreateThread(ctx, threadParams("u1", "self-talk"))
		require.NoError(t, err)

		_, err = threadStorage.AddComment(ctx, commentParams("u1", created.ID.Hex(), "replying to myself"))
		require.NoError(t, err)

		replies, err := activityStorage.GetActivity(ctx, "u1")
		require.NoError(t, err)
		for _, r := range replies {
			assert.NotEqual(t, "u1", r.AuthorID)
		}
	})

	t.Run("Replies are ordered newest first", func(t *testing.T) {
		created, err := threadStorage.CreateThread(ctx, threadParams("u1", "ordered"))
		require.NoError(t, err)

		_, err = threadStorage.AddComment(ctx, commentParams("u2", created.ID.Hex(), "first"))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		_, err = threadStorage.AddComment(ctx, commentParams("u2", created.ID.Hex(), "second"))
		require.NoError(t, err)

		replies, err := activityStorage.GetActivity(ctx, "u1")
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(replies), 2)
		for i := 1; i < len(replies); i++ {
			assert.False(t, replies[i-1].CreatedAt.Before(replies[i].CreatedAt))
		}
	})
}
