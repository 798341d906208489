package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VitaminP8/threadery/models"
)

// fetchSummaries достает краткие профили авторов одним запросом.
func fetchSummaries(ctx context.Context, db *mongo.Database, userIDs []string) (map[string]*models.UserSummary, error) {
	summaries := make(map[string]*models.UserSummary)
	if len(userIDs) == 0 {
		return summaries, nil
	}

	cur, err := db.Collection(usersCollection).Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authors: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode author: %w", err)
		}
		summaries[u.UserID] = u.Summary()
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch authors: %w", err)
	}

	return summaries, nil
}

// fetchThreadDocs достает документы тредов по их id одним запросом.
func fetchThreadDocs(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Thread, error) {
	docs := make(map[primitive.ObjectID]*models.Thread)
	if len(ids) == 0 {
		return docs, nil
	}

	cur, err := db.Collection(threadsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var t models.Thread
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode thread: %w", err)
		}
		doc := t
		docs[t.ID] = &doc
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}

	return docs, nil
}

func newNode(t *models.Thread, authors map[string]*models.UserSummary) *models.ThreadNode {
	return &models.ThreadNode{
		ID:         t.ID.Hex(),
		Text:       t.Text,
		AuthorID:   t.Author,
		Author:     authors[t.Author],
		ParentID:   t.ParentID,
		Community:  t.Community,
		CreatedAt:  t.CreatedAt,
		HasReplies: len(t.Children) > 0,
		Children:   []*models.ThreadNode{},
	}
}

// expandNodes строит дерево ответов для набора тредов, раскрывая детей
// на depth уровней. Один уровень - два запроса (дети + их авторы),
// независимо от ширины, поэтому глубина и ограничивается явно.
func expandNodes(ctx context.Context, db *mongo.Database, threads []*models.Thread, depth int) ([]*models.ThreadNode, error) {
	if len(threads) == 0 {
		return []*models.ThreadNode{}, nil
	}

	// авторы текущего уровня
	seen := make(map[string]bool)
	var authorIDs []string
	for _, t := range threads {
		if !seen[t.Author] {
			seen[t.Author] = true
			authorIDs = append(authorIDs, t.Author)
		}
	}
	authors, err := fetchSummaries(ctx, db, authorIDs)
	if err != nil {
		return nil, err
	}

	nodes := make([]*models.ThreadNode, len(threads))
	for i, t := range threads {
		nodes[i] = newNode(t, authors)
	}

	if depth <= 0 {
		return nodes, nil
	}

	// дети всего уровня одним запросом
	var allChildIDs []primitive.ObjectID
	for _, t := range threads {
		allChildIDs = append(allChildIDs, t.Children...)
	}
	childDocs, err := fetchThreadDocs(ctx, db, allChildIDs)
	if err != nil {
		return nil, err
	}

	// порядок детей - порядок их id в документе родителя
	var flat []*models.Thread
	counts := make([]int, len(threads))
	for i, t := range threads {
		for _, childID := range t.Children {
			if doc, ok := childDocs[childID]; ok {
				flat = append(flat, doc)
				counts[i]++
			}
		}
	}

	childNodes, err := expandNodes(ctx, db, flat, depth-1)
	if err != nil {
		return nil, err
	}

	idx := 0
	for i := range nodes {
		nodes[i].Children = childNodes[idx : idx+counts[i]]
		idx += counts[i]
	}

	return nodes, nil
}
