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

func TestEnsureIndexUsecase_Execute(t *testing.T) {
	rules, err := domain.ParseSynonymRules(domain.DefaultSynonymLines)
	require.NoError(t, err)
	schema := domain.NewProductIndexSchema("products2", rules)

	tests := []struct {
		name        string
		created     bool
		mockErr     error
		wantCreated bool
		wantErr     bool
	}{
		{name: "creates missing index", created: true, wantCreated: true},
		{name: "index already exists", created: false, wantCreated: false},
		{
			name:    "engine unreachable",
			mockErr: &domain.SearchEngineError{Op: "EnsureIndex", Err: "connection refused"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := mocks.NewMockSearchEngine(ctrl)
			engine.EXPECT().EnsureIndex(gomock.Any(), schema).Return(tt.created, tt.mockErr)

			created, err := NewEnsureIndexUsecase(engine, schema).Execute(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
		})
	}
}
