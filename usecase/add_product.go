package usecase

import (
	"context"
	"time"

	"catalog-search/domain"
	"catalog-search/logger"
	"catalog-search/port"
	"catalog-search/utils/otel"
)

// AddProductInput is the raw product as received from a client or an event.
type AddProductInput struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
}

type AddProductResult struct {
	Product *domain.Product
	Result  *domain.IndexResult
}

type AddProductUsecase struct {
	searchEngine port.SearchEngine
}

func NewAddProductUsecase(searchEngine port.SearchEngine) *AddProductUsecase {
	return &AddProductUsecase{
		searchEngine: searchEngine,
	}
}

// Execute validates the input and adds or replaces the product in the index.
func (u *AddProductUsecase) Execute(ctx context.Context, input AddProductInput) (*AddProductResult, error) {
	product, err := domain.NewProduct(input.ID, input.Name, input.Description, input.Price, input.Category)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCategory(product.Category); err != nil {
		return nil, err
	}

	ctx = logger.WithProductID(ctx, product.ID)
	ctx = logger.WithCategory(ctx, product.Category)
	start := time.Now()

	result, err := u.searchEngine.IndexProduct(ctx, *product)
	if err != nil {
		otel.Metrics.RecordError(ctx, "add_product")
		logger.GlobalContext.LogError(ctx, "add_product", err)
		return nil, err
	}

	elapsed := time.Since(start)
	otel.Metrics.RecordIndexed(ctx, elapsed)
	logger.GlobalContext.LogDurationTime(ctx, "add_product", elapsed)

	return &AddProductResult{
		Product: product,
		Result:  result,
	}, nil
}
