// Package graphql serves the sports article API over GraphQL.
//
// The schema is executed by graph-gophers/graphql-go. Resolvers delegate to the
// article use case and translate its errors into GraphQL errors whose
// extensions carry a machine-readable code (BAD_USER_INPUT, NOT_FOUND or
// INTERNAL_SERVER_ERROR).
package graphql

import (
	_ "embed"

	graphqlgo "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// DefaultMaxDepth bounds query nesting when no limit is configured.
const DefaultMaxDepth = 8

// NewSchema parses the article schema and binds it to svc.
// It panics if the schema and the resolver do not match.
func NewSchema(svc ArticleService, maxDepth int) *graphqlgo.Schema {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return graphqlgo.MustParseSchema(schemaSDL, NewResolver(svc), graphqlgo.MaxDepth(maxDepth))
}
