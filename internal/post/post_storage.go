package post

import (
	"context"

	"github.com/VitaminP8/blogql/models"
)

type PostStorage interface {
	CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]*models.Post, error)
	GetPostsByUser(ctx context.Context, userID string) ([]*models.Post, error)
	UpdatePost(ctx context.Context, id string, fields models.PostFields) (*models.Post, error)
	DeletePostByID(ctx context.Context, id string) (*models.Post, error)
}
