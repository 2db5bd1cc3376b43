package usecase

import (
	"context"
	"testing"

	"catalog-search/domain"
	"catalog-search/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDeleteProductUsecase_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockSearchEngine(ctrl)
	engine.EXPECT().DeleteProduct(gomock.Any(), "p1").Return(nil)

	assert.NoError(t, NewDeleteProductUsecase(engine).Execute(context.Background(), "p1"))
}

func TestDeleteProductUsecase_EmptyID(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockSearchEngine(ctrl)

	err := NewDeleteProductUsecase(engine).Execute(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyProductID)
}

func TestDeleteProductUsecase_EngineError(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockSearchEngine(ctrl)
	engine.EXPECT().DeleteProduct(gomock.Any(), "missing").
		Return(&domain.SearchEngineError{Op: "DeleteProduct", Err: "404 not_found"})

	err := NewDeleteProductUsecase(engine).Execute(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
}
