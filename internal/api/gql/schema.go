package gql

import (
	_ "embed"

	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema 解析 SDL 并绑定根 resolver，字段与方法在启动时校验
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(12),
		graphql.MaxParallelism(10),
	)
}
