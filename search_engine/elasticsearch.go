package search_engine

import (
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v7"
)

// ElasticsearchOptions holds connection settings for the Elasticsearch client.
type ElasticsearchOptions struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

func NewElasticsearchClient(opts ElasticsearchOptions) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: opts.Addresses,
		Transport: opts.Transport,
	}
	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	} else if opts.Username != "" {
		cfg.Username = opts.Username
		cfg.Password = opts.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client, nil
}
