package models

import "time"

// User is a stored account. Password always holds a bcrypt hash.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Post references its author by id only. The reference is never checked.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"userid" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content" validate:"required"`
	UserID    string    `json:"userid"`
	PostID    string    `json:"postid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserFields is the full set of writable user fields. Updates overwrite all of them.
type UserFields struct {
	Name     string
	Email    string
	Password string
}

// PostFields is the full set of writable post fields. UserID is applied only
// when ApplyUserID is set.
type PostFields struct {
	Title       string
	Content     string
	UserID      string
	ApplyUserID bool
}
