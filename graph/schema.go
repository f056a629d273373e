package graph

import (
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphqls
var SchemaSDL string

// NewSchema parses the SDL and binds it to r.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	return graphql.ParseSchema(SchemaSDL, &schemaRoot{r.Query(), r.Mutation()}, opts...)
}
