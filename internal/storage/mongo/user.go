package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VitaminP8/threadery/internal/user"
	"github.com/VitaminP8/threadery/models"
)

type UserMongoStorage struct{}

func NewUserMongoStorage() *UserMongoStorage {
	return &UserMongoStorage{}
}

func (s *UserMongoStorage) UpsertUser(ctx context.Context, params user.UpsertUserParams) (*models.User, error) {
	if params.UserID == "" {
		return nil, fmt.Errorf("user id is required: %w", models.ErrValidation)
	}
	if params.Username == "" {
		return nil, fmt.Errorf("username is required: %w", models.ErrValidation)
	}

	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"username":  strings.ToLower(params.Username),
			"name":      params.Name,
			"bio":       params.Bio,
			"image":     params.Image,
			"onboarded": true,
		},
		"$setOnInsert": bson.M{
			"user_id":    params.UserID,
			"threads":    []primitive.ObjectID{},
			"created_at": time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u models.User
	err = db.Collection(usersCollection).
		FindOneAndUpdate(ctx, bson.M{"user_id": params.UserID}, update, opts).
		Decode(&u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("username %q is already taken: %w", strings.ToLower(params.Username), models.ErrValidation)
		}
		return nil, fmt.Errorf("failed to add/update user: %w", err)
	}

	return &u, nil
}

func (s *UserMongoStorage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	var u models.User
	err = db.Collection(usersCollection).FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil // отсутствие пользователя - не ошибка
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &u, nil
}

func (s *UserMongoStorage) GetUserThreads(ctx context.Context, userID string) (*models.UserThreads, error) {
	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	var u models.User
	err = db.Collection(usersCollection).FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user with ID %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user threads: %w", err)
	}

	docs, err := fetchThreadDocs(ctx, db, u.Threads)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user threads: %w", err)
	}

	// порядок - порядок списка тредов пользователя
	ordered := make([]*models.Thread, 0, len(u.Threads))
	for _, id := range u.Threads {
		if doc, ok := docs[id]; ok {
			ordered = append(ordered, doc)
		}
	}

	// дети раскрываются на один уровень вместе с их авторами
	nodes, err := expandNodes(ctx, db, ordered, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user threads: %w", err)
	}

	return &models.UserThreads{User: &u, Threads: nodes}, nil
}

func (s *UserMongoStorage) SearchUsers(ctx context.Context, params user.SearchUsersParams) (*models.UserConnection, error) {
	Connect(ctx)
	db, err := Database()
	if err != nil {
		return nil, err
	}

	pageNumber := params.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	skip := int64((pageNumber - 1) * pageSize)

	// запрашивающий исключается из результатов
	filter := bson.M{"user_id": bson.M{"$ne": params.UserID}}

	if strings.TrimSpace(params.SearchString) != "" {
		// substring match, "i" - регистронезависимо
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(params.SearchString), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"username": bson.M{"$regex": regex}},
			bson.M{"name": bson.M{"$regex": regex}},
		}
	}

	total, err := db.Collection(usersCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	sortDir := -1
	if params.SortOrder == "asc" {
		sortDir = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: sortDir}, {Key: "_id", Value: sortDir}}).
		SetSkip(skip).
		SetLimit(int64(pageSize))

	cur, err := db.Collection(usersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cur.Close(ctx)

	users := []*models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		doc := u
		users = append(users, &doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return &models.UserConnection{
		Items:   users,
		HasMore: total > skip+int64(len(users)),
	}, nil
}
