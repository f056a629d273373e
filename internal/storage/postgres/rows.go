package postgres

import (
	"time"

	"github.com/VitaminP8/blogql/models"
)

type userRow struct {
	ID        uint `gorm:"primary_key"`
	Name      string
	Email     string `gorm:"index"`
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toModel() *models.User {
	return &models.User{
		ID:        formatID(r.ID),
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type postRow struct {
	ID        uint `gorm:"primary_key"`
	Title     string
	Content   string
	UserID    *uint `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (postRow) TableName() string { return "posts" }

func (r *postRow) toModel() *models.Post {
	return &models.Post{
		ID:        formatID(r.ID),
		Title:     r.Title,
		Content:   r.Content,
		UserID:    formatRef(r.UserID),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type commentRow struct {
	ID        uint `gorm:"primary_key"`
	Content   string
	UserID    *uint
	PostID    *uint `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (commentRow) TableName() string { return "comments" }

func (r *commentRow) toModel() *models.Comment {
	return &models.Comment{
		ID:        formatID(r.ID),
		Content:   r.Content,
		UserID:    formatRef(r.UserID),
		PostID:    formatRef(r.PostID),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}
