package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VitaminP8/threadery/internal/subscription"
	"github.com/VitaminP8/threadery/internal/thread"
	"github.com/VitaminP8/threadery/models"
)

type ThreadMongoStorage struct {
	manager subscription.Manager
}

func NewThreadMongoStorage(manager subscription.Manager) *ThreadMongoStorage {
	return &ThreadMongoStorage{manager: manager}
}

func (s *ThreadMongoStorage) CreateThread(ctx context.Context, params thread.CreateThreadParams) (*models.Thread, error) {
	if params.Text == "" {
		return nil, fmt.Errorf("thread text is required: %w", models.ErrValidation)
	}
	if params.AuthorID == "" {
		return nil, fmt.Errorf("thread author is required: %w", models.ErrValidation)
	}

	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	t := &models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      params.Text,
		Author:    params.AuthorID,
		Community: nil, // сообщества пока не включены, пишем null независимо от params
		ParentID:  nil,
		Children:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	// Две последовательные записи без транзакции: сначала тред, потом
	// список автора. При падении между ними останется тред, на который
	// никто не ссылается, а не битая ссылка.
	if _, err := db.Collection(threadsCollection).InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("error creating thread: %w", err)
	}

	_, err = db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"user_id": params.AuthorID},
		bson.M{"$push": bson.M{"threads": t.ID}},
	)
	if err != nil {
		return nil, fmt.Errorf("error creating thread: %w", err)
	}

	return t, nil
}

func (s *ThreadMongoStorage) AddComment(ctx context.Context, params thread.AddCommentParams) (*models.Thread, error) {
	if params.CommentText == "" {
		return nil, fmt.Errorf("comment text is required: %w", models.ErrValidation)
	}
	if params.AuthorID == "" {
		return nil, fmt.Errorf("comment author is required: %w", models.ErrValidation)
	}

	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	parentOID, err := primitive.ObjectIDFromHex(params.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("invalid thread ID %q: %w", params.ThreadID, models.ErrValidation)
	}

	var parent models.Thread
	err = db.Collection(threadsCollection).FindOne(ctx, bson.M{"_id": parentOID}).Decode(&parent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("thread with ID %s: %w", params.ThreadID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add comment to thread: %w", err)
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

	if _, err := db.Collection(threadsCollection).InsertOne(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to add comment to thread: %w", err)
	}

	// Двусторонняя связь: id ответа попадает в children родителя
	_, err = db.Collection(threadsCollection).UpdateOne(ctx,
		bson.M{"_id": parentOID},
		bson.M{"$push": bson.M{"children": reply.ID}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment to thread: %w", err)
	}

	if s.manager != nil {
		authors, err := fetchSummaries(ctx, db, []string{params.AuthorID})
		if err == nil {
			s.manager.Publish(params.ThreadID, newNode(reply, authors))
		}
	}

	return reply, nil
}

func (s *ThreadMongoStorage) GetThreads(ctx context.Context, pageNumber, pageSize int) (*models.ThreadConnection, error) {
	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	skip := int64((pageNumber - 1) * pageSize)

	// только корневые: parent_id null либо отсутствует
	filter := bson.M{"parent_id": nil}

	total, err := db.Collection(threadsCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(pageSize))

	cur, err := db.Collection(threadsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}
	defer cur.Close(ctx)

	var roots []*models.Thread
	for cur.Next(ctx) {
		var t models.Thread
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode thread: %w", err)
		}
		doc := t
		roots = append(roots, &doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}

	// автор + прямые дети с их авторами, внуки не раскрываются
	nodes, err := expandNodes(ctx, db, roots, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}

	return &models.ThreadConnection{
		Items:   nodes,
		HasMore: total > skip+int64(len(nodes)),
	}, nil
}

func (s *ThreadMongoStorage) GetThreadByID(ctx context.Context, id string, depth int) (*models.ThreadNode, error) {
	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid thread ID %q: %w", id, models.ErrValidation)
	}

	var t models.Thread
	err = db.Collection(threadsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread by id: %w", err)
	}

	nodes, err := expandNodes(ctx, db, []*models.Thread{&t}, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread by id: %w", err)
	}

	return nodes[0], nil
}
