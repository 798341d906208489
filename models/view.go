package models

import "time"

// UserSummary - урезанный профиль автора для populate
// (id, username, name, image - как в выборках оригинального UI).
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image"`
}

// Summary переводит полный документ пользователя в краткий профиль.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.UserID,
		Username: u.Username,
		Name:     u.Name,
		Image:    u.Image,
	}
}

// ThreadNode - тред с подтянутым автором и детьми.
// Children заполняется только до запрошенной глубины, ниже нее
// остается HasReplies, чтобы клиент мог дозапросить ветку.
type ThreadNode struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	AuthorID   string        `json:"authorId"`
	Author     *UserSummary  `json:"author"`
	ParentID   *string       `json:"parentId"`
	Community  *string       `json:"communityId"`
	CreatedAt  time.Time     `json:"createdAt"`
	HasReplies bool          `json:"hasReplies"`
	Children   []*ThreadNode `json:"children"`
}

// ThreadConnection - страница тредов с флагом наличия следующей страницы.
type ThreadConnection struct {
	Items   []*ThreadNode `json:"items"`
	HasMore bool          `json:"hasMore"`
}

// UserConnection - страница результатов поиска пользователей.
type UserConnection struct {
	Items   []*User `json:"items"`
	HasMore bool    `json:"hasMore"`
}

// UserThreads - профиль пользователя вместе с деревом его постов.
type UserThreads struct {
	User    *User         `json:"user"`
	Threads []*ThreadNode `json:"threads"`
}
