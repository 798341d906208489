package mongo

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VitaminP8/threadery/internal/logger"
	"github.com/VitaminP8/threadery/models"
)

// Разделяемое на процесс соединение. Проверка "подключились ли уже"
// и само подключение идут под одним мьютексом, чтобы параллельные
// запросы не открывали соединение дважды.
var (
	mu       sync.Mutex
	client   *mongo.Client
	database *mongo.Database
)

const (
	usersCollection   = "users"
	threadsCollection = "threads"
)

// Connect устанавливает соединение с MongoDB, если его еще нет.
// Идемпотентна и дешева на уже подключенном пути, безопасно вызывать
// перед каждой операцией. Ошибку не возвращает: без MONGODB_URL или при
// неудачном подключении пишет в лог, а операции позже упадут с ErrNotConnected.
func Connect(ctx context.Context) {
	mu.Lock()
	defer mu.Unlock()

	if database != nil {
		return
	}

	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		logger.Log.Warn("MONGODB_URL not set, store is not connected")
		return
	}

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Log.WithError(err).Error("could not connect to MongoDB")
		return
	}

	if err := c.Ping(ctx, nil); err != nil {
		logger.Log.WithError(err).Error("could not ping MongoDB")
		_ = c.Disconnect(ctx)
		return
	}

	client = c
	database = c.Database(os.Getenv("MONGODB_DATABASE"))
	if database.Name() == "" {
		database = c.Database("threadery")
	}

	logger.Log.Info("connected to MongoDB")
}

// Database возвращает хэндл базы или ErrNotConnected.
func Database() (*mongo.Database, error) {
	mu.Lock()
	defer mu.Unlock()

	if database == nil {
		return nil, models.ErrNotConnected
	}
	return database, nil
}

// InitWithDatabase для тестирования (позволяет инъекцию базы)
func InitWithDatabase(db *mongo.Database) {
	mu.Lock()
	defer mu.Unlock()
	database = db
}

// Close закрывает соединение с базой данных
func Close(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if client == nil {
		return nil
	}

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	client = nil
	database = nil
	logger.Log.Info("database connection closed")
	return nil
}

// EnsureIndexes создает индексы: уникальность username обеспечивается
// именно здесь, на уровне хранилища.
func EnsureIndexes(ctx context.Context) error {
	db, err := Database()
	if err != nil {
		return err
	}

	_, err = db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	_, err = db.Collection(threadsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create thread indexes: %w", err)
	}

	return nil
}
