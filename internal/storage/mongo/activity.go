package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VitaminP8/threadery/models"
)

type ActivityMongoStorage struct{}

func NewActivityMongoStorage() *ActivityMongoStorage {
	return &ActivityMongoStorage{}
}

// GetActivity - ответы других пользователей на треды userID.
// Собственные ответы пользователя на свои же треды не считаются активностью.
func (s *ActivityMongoStorage) GetActivity(ctx context.Context, userID string) ([]*models.ThreadNode, error) {
	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	cur, err := db.Collection(threadsCollection).Find(ctx, bson.M{"author": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	defer cur.Close(ctx)

	// объединение id детей всех тредов пользователя
	var childIDs []primitive.ObjectID
	for cur.Next(ctx) {
		var t models.Thread
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to get activity: %w", err)
		}
		childIDs = append(childIDs, t.Children...)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	if len(childIDs) == 0 {
		return []*models.ThreadNode{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	replyCur, err := db.Collection(threadsCollection).Find(ctx, bson.M{
		"_id":    bson.M{"$in": childIDs},
		"author": bson.M{"$ne": userID}, // свои ответы исключаются
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	defer replyCur.Close(ctx)

	var replies []*models.Thread
	for replyCur.Next(ctx) {
		var t models.Thread
		if err := replyCur.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to get activity: %w", err)
		}
		doc := t
		replies = append(replies, &doc)
	}
	if err := replyCur.Err(); err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	nodes, err := expandNodes(ctx, db, replies, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return nodes, nil
}
