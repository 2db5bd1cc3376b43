package usecase

import (
	"context"

	"catalog-search/domain"
	"catalog-search/logger"
	"catalog-search/port"
	"catalog-search/utils/otel"
)

type DeleteProductUsecase struct {
	searchEngine port.SearchEngine
}

func NewDeleteProductUsecase(searchEngine port.SearchEngine) *DeleteProductUsecase {
	return &DeleteProductUsecase{
		searchEngine: searchEngine,
	}
}

// Execute removes one product by id. Deleting an unknown id is reported by
// the engine as an error.
func (u *DeleteProductUsecase) Execute(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrEmptyProductID
	}

	ctx = logger.WithProductID(ctx, id)

	if err := u.searchEngine.DeleteProduct(ctx, id); err != nil {
		otel.Metrics.RecordError(ctx, "delete_product")
		logger.GlobalContext.LogError(ctx, "delete_product", err)
		return err
	}

	otel.Metrics.RecordDeleted(ctx)
	logger.GlobalContext.WithContext(ctx).Info("product deleted")
	return nil
}
