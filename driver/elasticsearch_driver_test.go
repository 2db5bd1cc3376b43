package driver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// clusterInfo answers the client's product check on GET /.
const clusterInfo = `{"version":{"number":"7.17.0","build_flavor":"default"},"tagline":"You Know, for Search"}`

type MockTransport struct {
	Requests    []recordedRequest
	RoundTripFn func(req *http.Request) (int, string)
}

func (t *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodGet && req.URL.Path == "/" {
		return esResponse(req, http.StatusOK, clusterInfo), nil
	}

	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	t.Requests = append(t.Requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.EscapedPath(),
		Query:  req.URL.RawQuery,
		Body:   body,
	})

	status, respBody := t.RoundTripFn(req)
	return esResponse(req, status, respBody), nil
}

func esResponse(req *http.Request, status int, body string) *http.Response {
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func mockElasticDriver(t *testing.T, fn func(req *http.Request) (int, string)) (*ElasticsearchDriver, *MockTransport) {
	t.Helper()

	mocktrans := &MockTransport{RoundTripFn: fn}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Transport: mocktrans,
	})
	require.NoError(t, err)

	return NewElasticsearchDriver(client, "products2", "synonym_analyzer", ""), mocktrans
}

func testIndexSettings() IndexSettingsDriver {
	return IndexSettingsDriver{
		Name:          "products2",
		Analyzer:      "synonym_analyzer",
		SynonymFilter: "synonym_filter",
		SynonymLines:  []string{"panasonic, samsung, apple", "tv, television"},
		TextFields:    []string{"name", "description"},
		KeywordFields: []string{"category"},
		NumericFields: []string{"price"},
	}
}

func TestElasticsearchDriver_EnsureIndex_Creates(t *testing.T) {
	d, trans := mockElasticDriver(t, func(req *http.Request) (int, string) {
		if req.Method == http.MethodHead {
			return http.StatusNotFound, ""
		}
		return http.StatusOK, `{"acknowledged":true,"shards_acknowledged":true,"index":"products2"}`
	})

	created, err := d.EnsureIndex(context.Background(), testIndexSettings())
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, trans.Requests, 2)
	assert.Equal(t, http.MethodHead, trans.Requests[0].Method)
	assert.Equal(t, "/products2", trans.Requests[0].Path)
	assert.Equal(t, http.MethodPut, trans.Requests[1].Method)
	assert.Equal(t, "/products2", trans.Requests[1].Path)

	var def map[string]any
	require.NoError(t, json.Unmarshal([]byte(trans.Requests[1].Body), &def))

	analysis := def["settings"].(map[string]any)["analysis"].(map[string]any)
	filter := analysis["filter"].(map[string]any)["synonym_filter"].(map[string]any)
	assert.Equal(t, "synonym", filter["type"])
	assert.Equal(t, []any{"panasonic, samsung, apple", "tv, television"}, filter["synonyms"])

	analyzer := analysis["analyzer"].(map[string]any)["synonym_analyzer"].(map[string]any)
	assert.Equal(t, "custom", analyzer["type"])
	assert.Equal(t, "standard", analyzer["tokenizer"])
	assert.Equal(t, []any{"lowercase", "synonym_filter"}, analyzer["filter"])

	props := def["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "text", "analyzer": "synonym_analyzer"}, props["name"])
	assert.Equal(t, map[string]any{"type": "text", "analyzer": "synonym_analyzer"}, props["description"])
	assert.Equal(t, map[string]any{"type": "float"}, props["price"])
	assert.Equal(t, map[string]any{"type": "keyword"}, props["category"])
}

func TestElasticsearchDriver_EnsureIndex_Exists(t *testing.T) {
	d, trans := mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusOK, ""
	})

	created, err := d.EnsureIndex(context.Background(), testIndexSettings())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, trans.Requests, 1)
}

func TestElasticsearchDriver_EnsureIndex_RaceLost(t *testing.T) {
	d, _ := mockElasticDriver(t, func(req *http.Request) (int, string) {
		if req.Method == http.MethodHead {
			return http.StatusNotFound, ""
		}
		return http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception"},"status":400}`
	})

	created, err := d.EnsureIndex(context.Background(), testIndexSettings())
	require.NoError(t, err)
	assert.False(t, created)
}

func TestElasticsearchDriver_EnsureIndex_Failure(t *testing.T) {
	d, _ := mockElasticDriver(t, func(req *http.Request) (int, string) {
		if req.Method == http.MethodHead {
			return http.StatusNotFound, ""
		}
		return http.StatusBadRequest, `{"error":{"type":"illegal_argument_exception"},"status":400}`
	})

	_, err := d.EnsureIndex(context.Background(), testIndexSettings())
	require.Error(t, err)

	var derr *DriverError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "EnsureIndex", derr.Op)
	assert.Contains(t, derr.Err, "illegal_argument_exception")
}

func TestElasticsearchDriver_IndexDocument(t *testing.T) {
	d, trans := mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusCreated, `{"_index":"products2","_id":"p1","_version":1,"result":"created"}`
	})

	ack, err := d.IndexDocument(context.Background(), ProductDocumentDriver{
		ID:          "p1",
		Name:        "Samsung TV",
		Description: "55 inch",
		Price:       499.5,
		Category:    "electronics",
	})
	require.NoError(t, err)
	assert.Equal(t, "products2", ack.Index)
	assert.Equal(t, "p1", ack.ID)
	assert.Equal(t, int64(1), ack.Version)
	assert.Equal(t, "created", ack.Result)
	assert.Nil(t, ack.TaskUID)

	require.Len(t, trans.Requests, 1)
	assert.Equal(t, http.MethodPut, trans.Requests[0].Method)
	assert.Equal(t, "/products2/_doc/p1", trans.Requests[0].Path)
	assert.JSONEq(t,
		`{"name":"Samsung TV","description":"55 inch","price":499.5,"category":"electronics"}`,
		trans.Requests[0].Body)
}

func TestElasticsearchDriver_IndexDocument_FullAcknowledgement(t *testing.T) {
	d, _ := mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusCreated, `{"_index":"products2","_id":"p1","_version":3,"result":"updated",` +
			`"_shards":{"total":2,"successful":1,"failed":0},"_seq_no":0,"_primary_term":1}`
	})

	ack, err := d.IndexDocument(context.Background(), ProductDocumentDriver{ID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, &ShardsDriver{Total: 2, Successful: 1, Failed: 0}, ack.Shards)
	require.NotNil(t, ack.SeqNo)
	assert.Equal(t, int64(0), *ack.SeqNo)
	require.NotNil(t, ack.PrimaryTerm)
	assert.Equal(t, int64(1), *ack.PrimaryTerm)
}

func TestElasticsearchDriver_EscapesDocumentIDs(t *testing.T) {
	tests := []struct {
		id       string
		wantPath string
	}{
		{id: "sku/1", wantPath: "/products2/_doc/sku%2F1"},
		{id: "a?b", wantPath: "/products2/_doc/a%3Fb"},
		{id: "50%off", wantPath: "/products2/_doc/50%25off"},
		{id: "big tv", wantPath: "/products2/_doc/big%20tv"},
		{id: "a#b", wantPath: "/products2/_doc/a%23b"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d, trans := mockElasticDriver(t, func(req *http.Request) (int, string) {
				return http.StatusOK, `{"_index":"products2","_id":"x","_version":1,"result":"created"}`
			})

			_, err := d.IndexDocument(context.Background(), ProductDocumentDriver{ID: tt.id})
			require.NoError(t, err)
			require.NoError(t, d.DeleteDocument(context.Background(), tt.id))

			require.Len(t, trans.Requests, 2)
			assert.Equal(t, http.MethodPut, trans.Requests[0].Method)
			assert.Equal(t, tt.wantPath, trans.Requests[0].Path)
			assert.Empty(t, trans.Requests[0].Query)
			assert.Equal(t, http.MethodDelete, trans.Requests[1].Method)
			assert.Equal(t, tt.wantPath, trans.Requests[1].Path)
		})
	}
}

func TestElasticsearchDriver_IndexDocument_Refresh(t *testing.T) {
	mocktrans := &MockTransport{RoundTripFn: func(req *http.Request) (int, string) {
		return http.StatusOK, `{"_index":"products2","_id":"p1","_version":2,"result":"updated"}`
	}}
	client, err := elasticsearch.NewClient(elasticsearch.Config{Transport: mocktrans})
	require.NoError(t, err)
	d := NewElasticsearchDriver(client, "products2", "synonym_analyzer", "wait_for")

	ack, err := d.IndexDocument(context.Background(), ProductDocumentDriver{ID: "p1", Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "updated", ack.Result)
	assert.Contains(t, mocktrans.Requests[0].Query, "refresh=wait_for")
}

func TestElasticsearchDriver_IndexDocument_Error(t *testing.T) {
	d, _ := mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusInternalServerError, `{"error":"boom"}`
	})

	_, err := d.IndexDocument(context.Background(), ProductDocumentDriver{ID: "p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IndexDocument")
	assert.Contains(t, err.Error(), "500")
}

func TestElasticsearchDriver_Search(t *testing.T) {
	d, trans := mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusOK, `{
			"took": 3,
			"hits": {
				"total": {"value": 1, "relation": "eq"},
				"hits": [
					{"_index":"products2","_id":"p1","_score":1.2,
					 "_source":{"name":"Samsung TV","description":"55 inch","price":499.5,"category":"electronics"}}
				]
			}
		}`
	})

	docs, err := d.Search(context.Background(), SearchRequestDriver{Query: "television", Category: "electronics", Limit: 5})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, ProductDocumentDriver{
		ID:          "p1",
		Name:        "Samsung TV",
		Description: "55 inch",
		Price:       499.5,
		Category:    "electronics",
	}, docs[0])

	require.Len(t, trans.Requests, 1)
	assert.Equal(t, "/products2/_search", trans.Requests[0].Path)
	assert.JSONEq(t, `{
		"query": {"bool": {
			"must": {"match": {"name": {"query": "television", "fuzziness": "AUTO", "analyzer": "synonym_analyzer"}}},
			"filter": {"term": {"category": "electronics"}}
		}},
		"size": 5
	}`, trans.Requests[0].Body)
}

func TestElasticsearchDriver_Search_Error(t *testing.T) {
	d, _ := mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":{"type":"search_phase_execution_exception"}}`
	})

	docs, err := d.Search(context.Background(), SearchRequestDriver{})
	require.Error(t, err)
	assert.Nil(t, docs)
}

func TestElasticsearchDriver_DeleteDocument(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		d, trans := mockElasticDriver(t, func(req *http.Request) (int, string) {
			return http.StatusOK, `{"_index":"products2","_id":"p1","result":"deleted"}`
		})

		require.NoError(t, d.DeleteDocument(context.Background(), "p1"))
		assert.Equal(t, http.MethodDelete, trans.Requests[0].Method)
		assert.Equal(t, "/products2/_doc/p1", trans.Requests[0].Path)
	})

	t.Run("not found", func(t *testing.T) {
		d, _ := mockElasticDriver(t, func(req *http.Request) (int, string) {
			return http.StatusNotFound, `{"_index":"products2","_id":"p1","result":"not_found"}`
		})

		err := d.DeleteDocument(context.Background(), "p1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestElasticsearchDriver_Ping(t *testing.T) {
	d, _ := mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusOK, ""
	})
	assert.NoError(t, d.Ping(context.Background()))

	d, _ = mockElasticDriver(t, func(req *http.Request) (int, string) {
		return http.StatusServiceUnavailable, ""
	})
	assert.Error(t, d.Ping(context.Background()))
}

func TestBuildSearchQuery_MatchAll(t *testing.T) {
	buf, err := buildSearchQuery(SearchRequestDriver{Query: "   "}, "synonym_analyzer")
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"bool":{"must":{"match_all":{}},"filter":[]}}}`, buf.String())
}
