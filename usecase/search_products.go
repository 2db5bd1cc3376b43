package usecase

import (
	"context"
	"time"

	"catalog-search/domain"
	"catalog-search/logger"
	"catalog-search/port"
	"catalog-search/utils"
	"catalog-search/utils/otel"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 1000
)

type SearchProductsUsecase struct {
	searchEngine port.SearchEngine
	sanitizer    *utils.QuerySanitizer
	limit        int
}

// NewSearchProductsUsecase creates the usecase. limit caps the number of
// products returned per search; values outside 1..MaxSearchLimit fall back
// to DefaultSearchLimit.
func NewSearchProductsUsecase(searchEngine port.SearchEngine, limit int) *SearchProductsUsecase {
	if limit <= 0 || limit > MaxSearchLimit {
		limit = DefaultSearchLimit
	}
	return &SearchProductsUsecase{
		searchEngine: searchEngine,
		sanitizer:    utils.NewQuerySanitizer(utils.DefaultSecurityConfig()),
		limit:        limit,
	}
}

// Execute runs a fuzzy, synonym-aware search. An empty query matches every
// product and an empty category applies no filter.
func (u *SearchProductsUsecase) Execute(ctx context.Context, query, category string) ([]domain.Product, error) {
	if err := u.sanitizer.ValidateQuery(ctx, query); err != nil {
		return nil, err
	}

	sanitizedQuery, err := u.sanitizer.SanitizeQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateCategory(category); err != nil {
		return nil, err
	}

	q := domain.ProductQuery{
		Query:    sanitizedQuery,
		Category: category,
		Limit:    u.limit,
	}

	ctx = logger.WithOperation(logger.WithCategory(ctx, category), "search_products")
	start := time.Now()

	products, err := u.searchEngine.SearchProducts(ctx, q)
	if err != nil {
		otel.Metrics.RecordError(ctx, "search_products")
		logger.GlobalContext.LogError(ctx, "search_products", err)
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	elapsed := time.Since(start)
	otel.Metrics.RecordSearch(ctx, elapsed, len(products), q.HasCategory())
	logger.GlobalContext.WithContext(ctx).Info("search ok",
		"match_all", q.MatchAll(),
		"count", len(products),
		"duration_ms", elapsed.Milliseconds())

	return products, nil
}
