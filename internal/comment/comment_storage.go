package comment

import (
	"context"

	"github.com/VitaminP8/blogql/models"
)

type CommentStorage interface {
	CreateComment(ctx context.Context, content, userID, postID string) (*models.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetAllComments(ctx context.Context) ([]*models.Comment, error)
	GetCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	DeleteCommentByID(ctx context.Context, id string) (*models.Comment, error)
}
