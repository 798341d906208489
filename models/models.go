package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User - документ пользователя. UserID - внешний id, который выдает
// identity provider (он неизменяемый). Username хранится в нижнем регистре,
// уникальность обеспечивается индексом хранилища.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	UserID    string               `bson:"user_id" json:"id"`
	Username  string               `bson:"username" json:"username"`
	Name      string               `bson:"name" json:"name"`
	Bio       string               `bson:"bio" json:"bio"`
	Image     string               `bson:"image" json:"image"`
	Onboarded bool                 `bson:"onboarded" json:"onboarded"`
	Threads   []primitive.ObjectID `bson:"threads" json:"-"`
	CreatedAt time.Time            `bson:"created_at" json:"createdAt"`
}

// Thread - документ поста. ParentID == nil для корневых постов,
// для ответов хранит hex id родительского треда. Children поддерживается
// путем записи (двусторонняя связь), а не схемой хранилища.
// Community пока всегда nil - зарезервировано на будущее.
type Thread struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Text      string               `bson:"text" json:"text"`
	Author    string               `bson:"author" json:"authorId"`
	Community *string              `bson:"community" json:"communityId"`
	ParentID  *string              `bson:"parent_id" json:"parentId"`
	Children  []primitive.ObjectID `bson:"children" json:"-"`
	CreatedAt time.Time            `bson:"created_at" json:"createdAt"`
}

// IsTopLevel - корневой пост, то есть без родителя.
func (t *Thread) IsTopLevel() bool {
	return t.ParentID == nil
}
