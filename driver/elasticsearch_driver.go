package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

// ElasticsearchDriver talks to an Elasticsearch cluster through esapi.
type ElasticsearchDriver struct {
	client   *elasticsearch.Client
	index    string
	analyzer string
	refresh  string
}

// NewElasticsearchDriver creates a driver bound to one index. refresh is the
// refresh policy sent with writes ("", "true", "false" or "wait_for").
func NewElasticsearchDriver(client *elasticsearch.Client, indexName, analyzer, refresh string) *ElasticsearchDriver {
	return &ElasticsearchDriver{
		client:   client,
		index:    indexName,
		analyzer: analyzer,
		refresh:  refresh,
	}
}

func (d *ElasticsearchDriver) EnsureIndex(ctx context.Context, settings IndexSettingsDriver) (bool, error) {
	resp, err := d.client.Indices.Exists(
		[]string{d.index},
		d.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, &DriverError{Op: "EnsureIndex", Err: "error getting index status: " + err.Error()}
	}
	closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, &DriverError{
			Op:  "EnsureIndex",
			Err: fmt.Sprintf("unexpected index status %d", resp.StatusCode),
		}
	}

	body, err := buildIndexDefinition(settings)
	if err != nil {
		return false, &DriverError{Op: "EnsureIndex", Err: "cannot encode index settings: " + err.Error()}
	}

	resp, err = d.client.Indices.Create(
		d.index,
		d.client.Indices.Create.WithBody(body),
		d.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return false, &DriverError{Op: "EnsureIndex", Err: "error create index: " + err.Error()}
	}
	defer closeBody(resp)

	if resp.IsError() {
		msg := readBody(resp)
		// another instance won the race between HEAD and PUT
		if strings.Contains(msg, "resource_already_exists_exception") {
			return false, nil
		}
		return false, &DriverError{
			Op:  "EnsureIndex",
			Err: fmt.Sprintf("elasticsearch responded %d: %s", resp.StatusCode, msg),
		}
	}

	return true, nil
}

func (d *ElasticsearchDriver) IndexDocument(ctx context.Context, doc ProductDocumentDriver) (*IndexAckDriver, error) {
	data, err := json.Marshal(doc.source())
	if err != nil {
		return nil, &DriverError{Op: "IndexDocument", Err: fmt.Sprintf("cannot encode document %s: %s", doc.ID, err)}
	}

	opts := []func(*esapi.IndexRequest){
		d.client.Index.WithDocumentID(documentPath(doc.ID)),
		d.client.Index.WithContext(ctx),
	}
	if d.refresh != "" {
		opts = append(opts, d.client.Index.WithRefresh(d.refresh))
	}

	resp, err := d.client.Index(d.index, bytes.NewReader(data), opts...)
	if err != nil {
		return nil, &DriverError{Op: "IndexDocument", Err: err.Error()}
	}
	defer closeBody(resp)

	if err := checkResponse("IndexDocument", resp); err != nil {
		return nil, err
	}

	var r esIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, &DriverError{Op: "IndexDocument", Err: "error parsing the response body: " + err.Error()}
	}

	return &IndexAckDriver{
		Index:       r.Index,
		ID:          r.ID,
		Version:     r.Version,
		Result:      r.Result,
		Shards:      r.Shards,
		SeqNo:       r.SeqNo,
		PrimaryTerm: r.PrimaryTerm,
	}, nil
}

func (d *ElasticsearchDriver) Search(ctx context.Context, req SearchRequestDriver) ([]ProductDocumentDriver, error) {
	body, err := buildSearchQuery(req, d.analyzer)
	if err != nil {
		return nil, &DriverError{Op: "Search", Err: "cannot encode query: " + err.Error()}
	}

	resp, err := d.client.Search(
		d.client.Search.WithContext(ctx),
		d.client.Search.WithIndex(d.index),
		d.client.Search.WithBody(body),
	)
	if err != nil {
		return nil, &DriverError{Op: "Search", Err: err.Error()}
	}
	defer closeBody(resp)

	if err := checkResponse("Search", resp); err != nil {
		return nil, err
	}

	var r esSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, &DriverError{Op: "Search", Err: "error parsing the response body: " + err.Error()}
	}

	docs := make([]ProductDocumentDriver, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		docs = append(docs, ProductDocumentDriver{
			ID:          hit.ID,
			Name:        hit.Source.Name,
			Description: hit.Source.Description,
			Price:       hit.Source.Price,
			Category:    hit.Source.Category,
		})
	}
	return docs, nil
}

func (d *ElasticsearchDriver) DeleteDocument(ctx context.Context, id string) error {
	resp, err := d.client.Delete(d.index, documentPath(id), d.client.Delete.WithContext(ctx))
	if err != nil {
		return &DriverError{Op: "DeleteDocument", Err: err.Error()}
	}
	defer closeBody(resp)

	return checkResponse("DeleteDocument", resp)
}

func (d *ElasticsearchDriver) Ping(ctx context.Context) error {
	resp, err := d.client.Ping(d.client.Ping.WithContext(ctx))
	if err != nil {
		return &DriverError{Op: "Ping", Err: err.Error()}
	}
	defer closeBody(resp)

	if resp.IsError() {
		return &DriverError{Op: "Ping", Err: fmt.Sprintf("elasticsearch responded %d", resp.StatusCode)}
	}
	return nil
}

// documentPath escapes a document id for use as a single URL path segment.
// esapi appends ids to the request path as is.
func documentPath(id string) string {
	return url.PathEscape(id)
}

func checkResponse(op string, resp *esapi.Response) error {
	if !resp.IsError() {
		return nil
	}
	return &DriverError{
		Op:  op,
		Err: fmt.Sprintf("elasticsearch responded %d: %s", resp.StatusCode, readBody(resp)),
	}
}

func readBody(resp *esapi.Response) string {
	if resp.Body == nil {
		return ""
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "error reading the response body: " + err.Error()
	}
	return strings.TrimSpace(string(b))
}

func closeBody(resp *esapi.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
