package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/VitaminP8/blogql/internal/auth"
	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/user"
	"github.com/VitaminP8/blogql/models"
)

type userArgs struct {
	Name     *string
	Email    *string
	Password *string
}

type credentialsArgs struct {
	Email    *string
	Password *string
}

// AddUser stores the bcrypt hash in place of the plaintext password. The
// returned record includes the hash.
func (r *mutationResolver) AddUser(ctx context.Context, args userArgs) (*userResolver, error) {
	hash, err := auth.HashPassword(deref(args.Password))
	if err != nil {
		return nil, err
	}

	u, err := r.Store.Users.CreateUser(ctx, models.UserFields{
		Name:     deref(args.Name),
		Email:    deref(args.Email),
		Password: hash,
	})
	if err != nil {
		return nil, err
	}
	return &userResolver{u: u, store: r.Store}, nil
}

// LoginUser returns the matching user or null. A wrong password and an
// unknown user are indistinguishable.
func (r *mutationResolver) LoginUser(ctx context.Context, args credentialsArgs) (*userResolver, error) {
	u, err := r.authenticate(ctx, deref(args.Email), deref(args.Password))
	if err != nil || u == nil {
		return nil, err
	}
	return &userResolver{u: u, store: r.Store}, nil
}

// LoginToken authenticates like LoginUser and returns a signed token instead
// of the user.
func (r *mutationResolver) LoginToken(ctx context.Context, args credentialsArgs) (*string, error) {
	u, err := r.authenticate(ctx, deref(args.Email), deref(args.Password))
	if err != nil || u == nil {
		return nil, err
	}

	token, err := r.Tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *mutationResolver) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	filter := user.Filter{Email: email}
	if r.CompatMode {
		// the email is not a filter in compat mode: the first user is checked
		filter = user.Filter{}
	} else if email == "" {
		return nil, nil
	}

	u, err := r.Store.Users.FindUser(ctx, filter)
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(u.Password, password) {
		return nil, nil
	}
	return u, nil
}

func (r *mutationResolver) AddPost(ctx context.Context, args struct {
	Title   *string
	Content *string
	UserID  *graphql.ID
}) (*postResolver, error) {
	p, err := r.Store.Posts.CreatePost(ctx, models.PostFields{
		Title:   deref(args.Title),
		Content: deref(args.Content),
		UserID:  derefID(args.UserID),
	})
	if err != nil {
		return nil, err
	}
	return &postResolver{p: p, store: r.Store}, nil
}

// EditUser overwrites name, email and password. Omitted arguments clear the
// stored value. A supplied password is hashed.
func (r *mutationResolver) EditUser(ctx context.Context, args struct {
	ID       graphql.ID
	Name     *string
	Email    *string
	Password *string
}) (*userResolver, error) {
	var hash string
	if args.Password != nil && *args.Password != "" {
		var err error
		hash, err = auth.HashPassword(*args.Password)
		if err != nil {
			return nil, err
		}
	}

	u, err := r.Store.Users.UpdateUser(ctx, string(args.ID), models.UserFields{
		Name:     deref(args.Name),
		Email:    deref(args.Email),
		Password: hash,
	})
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &userResolver{u: u, store: r.Store}, nil
}

// EditPost overwrites title and content. userid is only applied outside
// compatibility mode.
func (r *mutationResolver) EditPost(ctx context.Context, args struct {
	ID      graphql.ID
	Title   *string
	Content *string
	UserID  *graphql.ID
}) (*postResolver, error) {
	p, err := r.Store.Posts.UpdatePost(ctx, string(args.ID), models.PostFields{
		Title:       deref(args.Title),
		Content:     deref(args.Content),
		UserID:      derefID(args.UserID),
		ApplyUserID: !r.CompatMode,
	})
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &postResolver{p: p, store: r.Store}, nil
}

// DeleteUser removes the user and returns its prior state. Posts and
// comments referencing it are kept.
func (r *mutationResolver) DeleteUser(ctx context.Context, args struct{ ID graphql.ID }) (*userResolver, error) {
	u, err := r.Store.Users.DeleteUserByID(ctx, string(args.ID))
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &userResolver{u: u, store: r.Store}, nil
}

func (r *mutationResolver) DeletePost(ctx context.Context, args struct{ ID graphql.ID }) (*postResolver, error) {
	p, err := r.Store.Posts.DeletePostByID(ctx, string(args.ID))
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &postResolver{p: p, store: r.Store}, nil
}

func (r *mutationResolver) AddComment(ctx context.Context, args struct {
	Content *string
	UserID  *graphql.ID
	PostID  *graphql.ID
}) (*commentResolver, error) {
	c, err := r.Store.Comments.CreateComment(ctx, deref(args.Content), derefID(args.UserID), derefID(args.PostID))
	if err != nil {
		return nil, err
	}
	return &commentResolver{c: c, store: r.Store}, nil
}
