package port

import (
	"context"

	"catalog-search/domain"
)

//go:generate mockgen -source=search_engine.go -destination=../mocks/mock_search_engine.go -package=mocks

// SearchEngine is the catalog's view of the external full-text engine.
type SearchEngine interface {
	// EnsureIndex creates the index described by schema when it is missing.
	// It reports whether the index was created by this call.
	EnsureIndex(ctx context.Context, schema domain.IndexSchema) (bool, error)
	// IndexProduct adds or replaces a product document.
	IndexProduct(ctx context.Context, product domain.Product) (*domain.IndexResult, error)
	SearchProducts(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
