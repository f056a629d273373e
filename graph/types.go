package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

// Nested fields look their references up one parent at a time, so a list of
// N posts with their users costs N+1 store calls.

type userResolver struct {
	u     *models.User
	store *storage.Store
}

func (r *userResolver) ID() graphql.ID     { return graphql.ID(r.u.ID) }
func (r *userResolver) Name() *string      { return optional(r.u.Name) }
func (r *userResolver) Email() *string     { return optional(r.u.Email) }
func (r *userResolver) Password() *string  { return optional(r.u.Password) }
func (r *userResolver) CreatedAt() *string { return timestamp(r.u.CreatedAt) }
func (r *userResolver) UpdatedAt() *string { return timestamp(r.u.UpdatedAt) }

func (r *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := r.store.Posts.GetPostsByUser(ctx, r.u.ID)
	if err != nil {
		return nil, err
	}
	return postResolvers(posts, r.store), nil
}

type postResolver struct {
	p     *models.Post
	store *storage.Store
}

func (r *postResolver) ID() graphql.ID      { return graphql.ID(r.p.ID) }
func (r *postResolver) Title() *string      { return optional(r.p.Title) }
func (r *postResolver) Content() *string    { return optional(r.p.Content) }
func (r *postResolver) UserID() *graphql.ID { return optionalID(r.p.UserID) }
func (r *postResolver) CreatedAt() *string  { return timestamp(r.p.CreatedAt) }
func (r *postResolver) UpdatedAt() *string  { return timestamp(r.p.UpdatedAt) }

func (r *postResolver) User(ctx context.Context) (*userResolver, error) {
	return lookupUser(ctx, r.store, r.p.UserID)
}

func (r *postResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	comments, err := r.store.Comments.GetCommentsByPost(ctx, r.p.ID)
	if err != nil {
		return nil, err
	}
	return commentResolvers(comments, r.store), nil
}

type commentResolver struct {
	c     *models.Comment
	store *storage.Store
}

func (r *commentResolver) ID() graphql.ID      { return graphql.ID(r.c.ID) }
func (r *commentResolver) Content() *string    { return optional(r.c.Content) }
func (r *commentResolver) UserID() *graphql.ID { return optionalID(r.c.UserID) }
func (r *commentResolver) PostID() *graphql.ID { return optionalID(r.c.PostID) }
func (r *commentResolver) CreatedAt() *string  { return timestamp(r.c.CreatedAt) }
func (r *commentResolver) UpdatedAt() *string  { return timestamp(r.c.UpdatedAt) }

func (r *commentResolver) Post(ctx context.Context) (*postResolver, error) {
	return lookupPost(ctx, r.store, r.c.PostID)
}

func (r *commentResolver) User(ctx context.Context) (*userResolver, error) {
	return lookupUser(ctx, r.store, r.c.UserID)
}

// lookupUser follows a weak reference. A missing or dangling reference
// resolves to null.
func lookupUser(ctx context.Context, store *storage.Store, id string) (*userResolver, error) {
	if id == "" {
		return nil, nil
	}
	u, err := store.Users.GetUserByID(ctx, id)
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &userResolver{u: u, store: store}, nil
}

func lookupPost(ctx context.Context, store *storage.Store, id string) (*postResolver, error) {
	if id == "" {
		return nil, nil
	}
	p, err := store.Posts.GetPostByID(ctx, id)
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &postResolver{p: p, store: store}, nil
}

func lookupComment(ctx context.Context, store *storage.Store, id string) (*commentResolver, error) {
	c, err := store.Comments.GetCommentByID(ctx, id)
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &commentResolver{c: c, store: store}, nil
}

func userResolvers(users []*models.User, store *storage.Store) []*userResolver {
	res := make([]*userResolver, 0, len(users))
	for _, u := range users {
		res = append(res, &userResolver{u: u, store: store})
	}
	return res
}

func postResolvers(posts []*models.Post, store *storage.Store) []*postResolver {
	res := make([]*postResolver, 0, len(posts))
	for _, p := range posts {
		res = append(res, &postResolver{p: p, store: store})
	}
	return res
}

func commentResolvers(comments []*models.Comment, store *storage.Store) []*commentResolver {
	res := make([]*commentResolver, 0, len(comments))
	for _, c := range comments {
		res = append(res, &commentResolver{c: c, store: store})
	}
	return res
}
