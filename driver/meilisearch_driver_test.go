package driver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enqueuedTask = `{"taskUid":7,"indexUid":"products2","status":"enqueued","type":"documentAdditionOrUpdate","enqueuedAt":"2025-01-01T00:00:00Z"}`

func taskResponse(status string) string {
	return `{"uid":7,"indexUid":"products2","status":"` + status + `","type":"documentAdditionOrUpdate",` +
		`"enqueuedAt":"2025-01-01T00:00:00Z","startedAt":"2025-01-01T00:00:00Z","finishedAt":"2025-01-01T00:00:01Z","duration":"PT1S"}`
}

type fakeMeilisearch struct {
	mu         sync.Mutex
	calls      []string
	bodies     map[string]string
	taskStatus string
	handler    func(w http.ResponseWriter, r *http.Request) bool
}

func newFakeMeilisearch(
	t *testing.T,
	taskStatus string,
	handler func(w http.ResponseWriter, r *http.Request) bool,
) (*fakeMeilisearch, *MeilisearchDriver) {
	t.Helper()

	f := &fakeMeilisearch{bodies: map[string]string{}, taskStatus: taskStatus, handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.calls = append(f.calls, key)
		f.bodies[key] = string(body)
		handler := f.handler
		status := f.taskStatus
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if handler != nil && handler(w, r) {
			return
		}
		if strings.HasPrefix(r.URL.Path, "/tasks/") {
			_, _ = w.Write([]byte(taskResponse(status)))
			return
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(enqueuedTask))
	}))
	t.Cleanup(srv.Close)

	client := meilisearch.New(srv.URL, meilisearch.WithAPIKey("test-key"))
	return f, NewMeilisearchDriver(client, "products2")
}

func (f *fakeMeilisearch) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (f *fakeMeilisearch) body(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func TestMeilisearchDriver_Search(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path != "/indexes/products2/search" {
			return false
		}
		_, _ = w.Write([]byte(`{
			"hits": [
				{"id":"p1","name":"Samsung TV","description":"55 inch","price":499.5,"category":"electronics"},
				{"id":"p2","name":"Apple TV","description":"box","price":129,"category":"electronics"}
			],
			"query": "television",
			"processingTimeMs": 1,
			"limit": 5,
			"offset": 0,
			"estimatedTotalHits": 2
		}`))
		return true
	}
	f, d := newFakeMeilisearch(t, "succeeded", handler)

	docs, err := d.Search(context.Background(), SearchRequestDriver{Query: "television", Category: "electronics", Limit: 5})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID)
	assert.Equal(t, 499.5, docs[0].Price)
	assert.Equal(t, "Apple TV", docs[1].Name)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.body("POST /indexes/products2/search")), &sent))
	assert.Equal(t, "television", sent["q"])
	assert.Equal(t, `category = "electronics"`, sent["filter"])
	assert.EqualValues(t, 5, sent["limit"])
}

func TestMeilisearchDriver_Search_Error(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) bool {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad filter","code":"invalid_search_filter","type":"invalid_request","link":""}`))
		return true
	}
	_, d := newFakeMeilisearch(t, "succeeded", handler)

	_, err := d.Search(context.Background(), SearchRequestDriver{Query: "tv"})
	require.Error(t, err)

	var derr *DriverError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Search", derr.Op)
}

func TestMeilisearchDriver_IndexDocument(t *testing.T) {
	f, d := newFakeMeilisearch(t, "succeeded", nil)

	ack, err := d.IndexDocument(context.Background(), ProductDocumentDriver{
		ID:       "p1",
		Name:     "Samsung TV",
		Price:    499.5,
		Category: "electronics",
	})
	require.NoError(t, err)
	assert.Equal(t, "products2", ack.Index)
	assert.Equal(t, "p1", ack.ID)
	require.NotNil(t, ack.TaskUID)
	assert.Equal(t, int64(7), *ack.TaskUID)

	assert.True(t, f.called("POST /indexes/products2/documents"))
	assert.True(t, f.called("GET /tasks/7"))
}

func TestMeilisearchDriver_DeleteDocument_FailedTask(t *testing.T) {
	f, d := newFakeMeilisearch(t, "failed", nil)

	err := d.DeleteDocument(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeleteDocument")
	assert.True(t, f.called("DELETE /indexes/products2/documents/p1"))
}

func TestMeilisearchDriver_EnsureIndex_Exists(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodGet && r.URL.Path == "/indexes/products2" {
			_, _ = w.Write([]byte(`{"uid":"products2","primaryKey":"id","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}`))
			return true
		}
		return false
	}
	f, d := newFakeMeilisearch(t, "succeeded", handler)

	created, err := d.EnsureIndex(context.Background(), testIndexSettings())
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, f.called("POST /indexes"))
}

func TestMeilisearchDriver_EnsureIndex_Creates(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodGet && r.URL.Path == "/indexes/products2" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Index products2 not found.","code":"index_not_found","type":"invalid_request","link":""}`))
			return true
		}
		return false
	}
	f, d := newFakeMeilisearch(t, "succeeded", handler)

	settings := testIndexSettings()
	settings.SynonymMap = map[string][]string{"tv": {"television"}, "television": {"tv"}}

	created, err := d.EnsureIndex(context.Background(), settings)
	require.NoError(t, err)
	assert.True(t, created)

	assert.True(t, f.called("POST /indexes"))
	assert.Contains(t, f.body("POST /indexes"), `"uid":"products2"`)
	assert.Contains(t, f.body("POST /indexes"), `"primaryKey":"id"`)
	assert.JSONEq(t, `{"tv":["television"],"television":["tv"]}`, f.body("PUT /indexes/products2/settings/synonyms"))
	assert.JSONEq(t, `["name","description"]`, f.body("PUT /indexes/products2/settings/searchable-attributes"))
	assert.JSONEq(t, `["category"]`, f.body("PUT /indexes/products2/settings/filterable-attributes"))
	assert.JSONEq(t, `["price"]`, f.body("PUT /indexes/products2/settings/sortable-attributes"))
	assert.True(t, f.called("PATCH /indexes/products2/settings/typo-tolerance"))
}

func TestMeilisearchDriver_HonoursContext(t *testing.T) {
	f, d := newFakeMeilisearch(t, "succeeded", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, d.Ping(ctx))
	_, err := d.Search(ctx, SearchRequestDriver{Query: "tv"})
	assert.Error(t, err)
	_, err = d.EnsureIndex(ctx, testIndexSettings())
	assert.Error(t, err)

	assert.False(t, f.called("GET /health"))
	assert.False(t, f.called("POST /indexes/products2/search"))
	assert.False(t, f.called("GET /indexes/products2"))
}

func TestMakeCategoryFilter(t *testing.T) {
	tests := []struct {
		name     string
		category string
		expected string
	}{
		{name: "empty category", category: "", expected: ""},
		{name: "plain category", category: "electronics", expected: `category = "electronics"`},
		{name: "category with quotes", category: `tv"malicious`, expected: `category = "tv\"malicious"`},
		{name: "category with backslash", category: `a\b`, expected: `category = "a\\b"`},
		{name: "filter bypass attempt", category: `x" OR category = "y`, expected: `category = "x\" OR category = \"y"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, makeCategoryFilter(tt.category))
		})
	}
}
