package search_engine

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureTransport struct {
	lastReq *http.Request
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
		Request:    req,
	}, nil
}

func TestNewElasticsearchClient_BasicAuth(t *testing.T) {
	trans := &captureTransport{}
	client, err := NewElasticsearchClient(ElasticsearchOptions{
		Addresses: []string{"http://es.local:9200"},
		Username:  "elastic",
		Password:  "secret",
		Transport: trans,
	})
	require.NoError(t, err)

	resp, err := client.Ping()
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotNil(t, trans.lastReq)
	assert.Equal(t, "es.local:9200", trans.lastReq.URL.Host)
	user, pass, ok := trans.lastReq.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "elastic", user)
	assert.Equal(t, "secret", pass)
}

func TestNewElasticsearchClient_APIKeyWins(t *testing.T) {
	trans := &captureTransport{}
	client, err := NewElasticsearchClient(ElasticsearchOptions{
		Addresses: []string{"http://es.local:9200"},
		Username:  "elastic",
		Password:  "secret",
		APIKey:    "a2V5",
		Transport: trans,
	})
	require.NoError(t, err)

	resp, err := client.Ping()
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "APIKey a2V5", trans.lastReq.Header.Get("Authorization"))
}

func TestNewElasticsearchClient_InvalidAddress(t *testing.T) {
	_, err := NewElasticsearchClient(ElasticsearchOptions{
		Addresses: []string{"://bad"},
	})
	assert.Error(t, err)
}

func TestNewMeilisearchClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		assert.Equal(t, "Bearer master-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"available"}`))
	}))
	defer srv.Close()

	client, err := NewMeilisearchClient(MeilisearchOptions{
		Host:    srv.URL,
		APIKey:  "master-key",
		Timeout: time.Second,
	})
	require.NoError(t, err)

	health, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "available", health.Status)
}

func TestNewMeilisearchClient_InvalidHost(t *testing.T) {
	for _, host := range []string{"", "localhost:7700", "://bad"} {
		_, err := NewMeilisearchClient(MeilisearchOptions{Host: host})
		assert.Error(t, err, host)
	}
}
