package search

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks notegraph/internal/search Index

import "context"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Point is a canvas coordinate used for proximity queries.
type Point struct {
	X float64
	Y float64
}

// Query selects documents. Text matches name or content; Color and Tag are
// exact facet filters. With Near set, results are ordered by distance to the
// point, otherwise by DefaultSortingField descending.
type Query struct {
	Text  string
	Color string
	Tag   string
	Near  *Point
	Limit int
}

// Hit is one search result.
type Hit struct {
	Document Document
	Score    float32
}

// Index defines the interface for the search document index.
type Index interface {
	// EnsureCollection creates the collection and its field indexes if absent.
	EnsureCollection(ctx context.Context) error

	// Upsert inserts or replaces the document with doc.ID.
	Upsert(ctx context.Context, doc Document) error

	// Delete removes the document with the given ID. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Search runs q against the collection.
	Search(ctx context.Context, q Query) ([]Hit, error)

	// Ping checks that the index backend is reachable.
	Ping(ctx context.Context) error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
