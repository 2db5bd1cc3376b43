package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"catalog-search/config"
	"catalog-search/domain"
	"catalog-search/driver"
	"catalog-search/gateway"
	"catalog-search/logger"
	"catalog-search/port"
	"catalog-search/search_engine"
	"catalog-search/usecase"
)

// newSearchEngine builds the gateway for the configured backend.
func newSearchEngine(cfg *config.Config) (*gateway.SearchEngineGateway, error) {
	switch cfg.Backend {
	case config.BackendMeilisearch:
		logger.Logger.Info("Using Meilisearch", "host", cfg.Meilisearch.Host)
		client, err := search_engine.NewMeilisearchClient(search_engine.MeilisearchOptions{
			Host:    cfg.Meilisearch.Host,
			APIKey:  cfg.Meilisearch.APIKey,
			Timeout: cfg.Engine.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("meilisearch client: %w", err)
		}
		return gateway.NewSearchEngineGateway(driver.NewMeilisearchDriver(client, cfg.Index.Name)), nil

	case config.BackendElasticsearch:
		logger.Logger.Info("Using Elasticsearch", "addresses", cfg.Elasticsearch.Addresses)
		client, err := search_engine.NewElasticsearchClient(search_engine.ElasticsearchOptions{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			APIKey:    cfg.Elasticsearch.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("elasticsearch client: %w", err)
		}
		esDriver := driver.NewElasticsearchDriver(client, cfg.Index.Name, domain.SynonymAnalyzerName, cfg.Elasticsearch.Refresh)
		return gateway.NewSearchEngineGateway(esDriver), nil

	default:
		return nil, fmt.Errorf("unsupported search backend %q", cfg.Backend)
	}
}

// newConnectBackoff creates the exponential backoff policy used while the
// engine is starting up.
func newConnectBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 15 * time.Second
	bo.Multiplier = 2
	return bo
}

// waitForEngine pings the engine until it answers or the retries run out.
func waitForEngine(ctx context.Context, engine port.SearchEngine, cfg config.EngineConfig, bo backoff.BackOff) error {
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		if err := engine.Ping(pingCtx); err != nil {
			logger.Logger.Warn("search engine not ready, retrying",
				"attempt", attempt,
				"max", cfg.ConnectRetries,
				"err", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(uint(cfg.ConnectRetries)))
	if err != nil {
		return fmt.Errorf("search engine unreachable after %d attempts: %w", attempt, err)
	}

	logger.Logger.Info("Connected to search engine", "attempts", attempt)
	return nil
}

// ensureIndex runs the create-if-missing check for the catalog index.
func ensureIndex(ctx context.Context, engine port.SearchEngine, cfg *config.Config) error {
	schema := domain.NewProductIndexSchema(cfg.Index.Name, cfg.Index.Synonyms)

	ensureCtx, cancel := context.WithTimeout(ctx, cfg.Engine.Timeout)
	defer cancel()

	if _, err := usecase.NewEnsureIndexUsecase(engine, schema).Execute(ensureCtx); err != nil {
		return fmt.Errorf("ensure index %s: %w", schema.Name, err)
	}
	return nil
}
