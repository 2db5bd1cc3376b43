package usecase

import (
	"context"
	"time"

	"catalog-search/port"
)

type CheckHealthUsecase struct {
	searchEngine port.SearchEngine
	timeout      time.Duration
}

func NewCheckHealthUsecase(searchEngine port.SearchEngine, timeout time.Duration) *CheckHealthUsecase {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &CheckHealthUsecase{searchEngine: searchEngine, timeout: timeout}
}

// Execute reports whether the search engine answers within the timeout.
func (u *CheckHealthUsecase) Execute(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.searchEngine.Ping(ctx)
}
