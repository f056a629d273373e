package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/VitaminP8/blogql/internal/auth"
)

func (r *queryResolver) Post(ctx context.Context, args struct{ ID graphql.ID }) (*postResolver, error) {
	return lookupPost(ctx, r.Store, string(args.ID))
}

func (r *queryResolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*userResolver, error) {
	return lookupUser(ctx, r.Store, string(args.ID))
}

func (r *queryResolver) Comment(ctx context.Context, args struct{ ID graphql.ID }) (*commentResolver, error) {
	return lookupComment(ctx, r.Store, string(args.ID))
}

func (r *queryResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := r.Store.Posts.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	return postResolvers(posts, r.Store), nil
}

func (r *queryResolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := r.Store.Users.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	return userResolvers(users, r.Store), nil
}

func (r *queryResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	comments, err := r.Store.Comments.GetAllComments(ctx)
	if err != nil {
		return nil, err
	}
	return commentResolvers(comments, r.Store), nil
}

// Me returns the user named by the request's bearer token, or null.
func (r *queryResolver) Me(ctx context.Context) (*userResolver, error) {
	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return lookupUser(ctx, r.Store, id)
}
