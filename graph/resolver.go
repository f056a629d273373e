package graph

import (
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/VitaminP8/blogql/internal/auth"
	"github.com/VitaminP8/blogql/internal/storage"
)

// Resolver is the root of both Query and Mutation. The store is injected;
// nested fields receive it through the type resolvers.
type Resolver struct {
	Store *storage.Store
	// CompatMode keeps two legacy API behaviours: loginUser looks
	// up the first user without filtering by email, and editPost ignores its
	// userid argument.
	CompatMode bool
	Tokens     *auth.Tokens
}

func NewResolver(store *storage.Store, compatMode bool, tokens *auth.Tokens) *Resolver {
	return &Resolver{
		Store:      store,
		CompatMode: compatMode,
		Tokens:     tokens,
	}
}

func (r *Resolver) Query() *queryResolver { return &queryResolver{r} }

func (r *Resolver) Mutation() *mutationResolver { return &mutationResolver{r} }

type queryResolver struct{ *Resolver }

type mutationResolver struct{ *Resolver }

// schemaRoot serves both root operation types of the schema.
type schemaRoot struct {
	*queryResolver
	*mutationResolver
}

// optional renders an empty stored value as null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalID(id string) *graphql.ID {
	if id == "" {
		return nil
	}
	gid := graphql.ID(id)
	return &gid
}

func timestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefID(id *graphql.ID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}
