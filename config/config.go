package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"catalog-search/domain"
)

// Supported SEARCH_BACKEND values.
const (
	BackendElasticsearch = "elasticsearch"
	BackendMeilisearch   = "meilisearch"
)

type Config struct {
	Backend       string
	Elasticsearch ElasticsearchConfig
	Meilisearch   MeilisearchConfig
	Index         IndexConfig
	Engine        EngineConfig
	HTTP          HTTPConfig
	Search        SearchConfig
	RateLimit     RateLimitConfig
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
	// Refresh is passed as the refresh parameter of index requests:
	// "", "true", "false" or "wait_for".
	Refresh string
}

type MeilisearchConfig struct {
	Host   string
	APIKey string
}

type IndexConfig struct {
	Name         string
	SynonymsFile string
	Synonyms     domain.SynonymRules
}

type EngineConfig struct {
	ConnectRetries int
	Timeout        time.Duration
	HealthTimeout  time.Duration
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	BodyLimit         string
	ShutdownTimeout   time.Duration
}

type SearchConfig struct {
	ResultLimit int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		Backend: strings.ToLower(getEnvOrDefault("SEARCH_BACKEND", DefaultBackend)),
		Elasticsearch: ElasticsearchConfig{
			Addresses: splitList(getEnvOrDefault("ELASTICSEARCH_URL", DefaultElasticsearchURL)),
			Username:  getEnvOrDefault("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnvOrDefault("ELASTICSEARCH_PASSWORD", ""),
			APIKey:    getEnvOrDefault("ELASTICSEARCH_API_KEY", ""),
			Refresh:   getEnvOrDefault("ELASTICSEARCH_REFRESH", ""),
		},
		Meilisearch: MeilisearchConfig{
			Host:   getEnvOrDefault("MEILISEARCH_HOST", DefaultMeilisearchHost),
			APIKey: getEnvOrDefault("MEILISEARCH_API_KEY", ""),
		},
		Index: IndexConfig{
			Name:         getEnvOrDefault("INDEX_NAME", domain.DefaultIndexName),
			SynonymsFile: getEnvOrDefault("SYNONYMS_FILE", ""),
		},
		HTTP: HTTPConfig{
			Addr:              getEnvOrDefault("HTTP_ADDR", DefaultHTTPAddr),
			ReadHeaderTimeout: 5 * time.Second,
			BodyLimit:         getEnvOrDefault("BODY_LIMIT", DefaultBodyLimit),
		},
	}

	var err error
	cfg.Engine.ConnectRetries, err = intEnv("ENGINE_CONNECT_RETRIES", DefaultConnectRetries)
	collect(err)
	cfg.Engine.Timeout, err = durationEnv("ENGINE_TIMEOUT", DefaultEngineTimeout)
	collect(err)
	cfg.Engine.HealthTimeout, err = durationEnv("HEALTH_TIMEOUT", DefaultHealthTimeout)
	collect(err)
	cfg.HTTP.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout)
	collect(err)
	cfg.Search.ResultLimit, err = intEnv("SEARCH_RESULT_LIMIT", DefaultSearchLimit)
	collect(err)
	cfg.RateLimit.RPS, err = floatEnv("RATE_LIMIT_RPS", DefaultRateLimitRPS)
	collect(err)
	cfg.RateLimit.Burst, err = intEnv("RATE_LIMIT_BURST", DefaultRateLimitBurst)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg.Index.Synonyms, err = LoadSynonyms(cfg.Index.SynonymsFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("Configuration loaded",
		"backend", cfg.Backend,
		"index", cfg.Index.Name,
		"synonym_rules", len(cfg.Index.Synonyms),
		"http_addr", cfg.HTTP.Addr,
	)

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendElasticsearch:
		if len(c.Elasticsearch.Addresses) == 0 {
			errs = append(errs, errors.New("ELASTICSEARCH_URL must not be empty"))
		}
		switch c.Elasticsearch.Refresh {
		case "", "true", "false", "wait_for":
		default:
			errs = append(errs, fmt.Errorf("ELASTICSEARCH_REFRESH must be one of true, false, wait_for: got %q", c.Elasticsearch.Refresh))
		}
	case BackendMeilisearch:
		if c.Meilisearch.Host == "" {
			errs = append(errs, errors.New("MEILISEARCH_HOST must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("SEARCH_BACKEND must be %q or %q: got %q", BackendElasticsearch, BackendMeilisearch, c.Backend))
	}

	if strings.TrimSpace(c.Index.Name) == "" {
		errs = append(errs, errors.New("INDEX_NAME must not be empty"))
	}
	if c.Search.ResultLimit < 1 || c.Search.ResultLimit > 1000 {
		errs = append(errs, fmt.Errorf("SEARCH_RESULT_LIMIT must be between 1 and 1000: got %d", c.Search.ResultLimit))
	}
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive: got %v", c.RateLimit.RPS))
	}
	if c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1: got %d", c.RateLimit.Burst))
	}
	if c.Engine.ConnectRetries < 1 {
		errs = append(errs, fmt.Errorf("ENGINE_CONNECT_RETRIES must be at least 1: got %d", c.Engine.ConnectRetries))
	}
	if c.Engine.Timeout <= 0 {
		errs = append(errs, errors.New("ENGINE_TIMEOUT must be positive"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
