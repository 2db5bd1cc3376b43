package search_engine

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

// MeilisearchOptions holds connection settings for the Meilisearch client.
type MeilisearchOptions struct {
	Host   string
	APIKey string
	// Timeout bounds each HTTP call; zero means no client-side timeout.
	Timeout time.Duration
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

func NewMeilisearchClient(opts MeilisearchOptions) (meilisearch.ServiceManager, error) {
	u, err := url.Parse(opts.Host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid meilisearch host %q", opts.Host)
	}

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
	}

	return meilisearch.New(opts.Host,
		meilisearch.WithAPIKey(opts.APIKey),
		meilisearch.WithCustomClient(httpClient),
	), nil
}
