package usecase

import (
	"context"
	"time"

	"catalog-search/domain"
	"catalog-search/logger"
	"catalog-search/port"
)

type EnsureIndexUsecase struct {
	searchEngine port.SearchEngine
	schema       domain.IndexSchema
}

func NewEnsureIndexUsecase(searchEngine port.SearchEngine, schema domain.IndexSchema) *EnsureIndexUsecase {
	return &EnsureIndexUsecase{
		searchEngine: searchEngine,
		schema:       schema,
	}
}

// Execute creates the catalog index when it does not exist yet.
// It reports whether the index was created.
func (u *EnsureIndexUsecase) Execute(ctx context.Context) (bool, error) {
	ctx = logger.WithOperation(logger.WithIndex(ctx, u.schema.Name), "ensure_index")
	start := time.Now()

	created, err := u.searchEngine.EnsureIndex(ctx, u.schema)
	if err != nil {
		logger.GlobalContext.LogError(ctx, "ensure_index", err)
		return false, err
	}

	log := logger.GlobalContext.WithContext(ctx)
	if created {
		log.Info("index created",
			"analyzer", u.schema.Analyzer,
			"synonym_rules", len(u.schema.Synonyms),
			"duration_ms", time.Since(start).Milliseconds())
	} else {
		log.Info("index already exists")
	}

	return created, nil
}
