package user

import (
	"context"

	"github.com/VitaminP8/blogql/models"
)

// Filter narrows FindUser. The zero value matches every user.
type Filter struct {
	Email string
}

type UserStorage interface {
	CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	// FindUser returns the first user matching filter in natural order.
	FindUser(ctx context.Context, filter Filter) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error)
	DeleteUserByID(ctx context.Context, id string) (*models.User, error)
}
