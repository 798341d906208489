package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VitaminP8/threadery/models"
)

func TestDatabase_NotConnected(t *testing.T) {
	InitWithDatabase(nil)

	db, err := Database()
	assert.Nil(t, db)
	assert.ErrorIs(t, err, models.ErrNotConnected)
}

func TestDatabase_InitWithDatabase(t *testing.T) {
	// mongo.Connect не устанавливает соединение сразу, так что хэндл
	// можно получить без запущенного сервера
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)

	InitWithDatabase(client.Database("threadery_test"))
	defer InitWithDatabase(nil)

	db, err := Database()
	require.NoError(t, err)
	assert.Equal(t, "threadery_test", db.Name())
}

func TestConnect_WithoutURL(t *testing.T) {
	InitWithDatabase(nil)
	t.Setenv("MONGODB_URL", "")

	Connect(context.Background())

	_, err := Database()
	assert.ErrorIs(t, err, models.ErrNotConnected)
}

func TestStorage_NotConnected(t *testing.T) {
	InitWithDatabase(nil)
	t.Setenv("MONGODB_URL", "")

	t.Run("User storage", func(t *testing.T) {
		storage := NewUserMongoStorage()
		_, err := storage.GetUser(context.Background(), "u1")
		assert.ErrorIs(t, err, models.ErrNotConnected)
	})

	t.Run("Thread storage", func(t *testing.T) {
		storage := NewThreadMongoStorage(nil)
		_, err := storage.GetThreads(context.Background(), 1, 20)
		assert.ErrorIs(t, err, models.ErrNotConnected)
	})

	t.Run("Indexes", func(t *testing.T) {
		err := EnsureIndexes(context.Background())
		assert.ErrorIs(t, err, models.ErrNotConnected)
	})
}
