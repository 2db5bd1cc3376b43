package driver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

const defaultTaskPollInterval = 50 * time.Millisecond

type MeilisearchDriver struct {
	client       meilisearch.ServiceManager
	index        meilisearch.IndexManager
	indexName    string
	pollInterval time.Duration
}

func NewMeilisearchDriver(client meilisearch.ServiceManager, indexName string) *MeilisearchDriver {
	return &MeilisearchDriver{
		client:       client,
		index:        client.Index(indexName),
		indexName:    indexName,
		pollInterval: defaultTaskPollInterval,
	}
}

// EnsureIndex creates the index with `id` as primary key when it is missing
// and then applies the catalog settings. Settings are only pushed on
// creation; an existing index is left as is.
func (d *MeilisearchDriver) EnsureIndex(ctx context.Context, settings IndexSettingsDriver) (bool, error) {
	_, err := d.index.FetchInfoWithContext(ctx)
	if err == nil {
		return false, nil
	}
	if !isNotFound(err) {
		return false, &DriverError{Op: "EnsureIndex", Err: "failed to fetch index info: " + err.Error()}
	}

	task, err := d.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        d.indexName,
		PrimaryKey: "id",
	})
	if err != nil {
		return false, &DriverError{Op: "EnsureIndex", Err: "failed to create index: " + err.Error()}
	}
	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return false, &DriverError{Op: "EnsureIndex", Err: "failed to wait for index creation: " + err.Error()}
	}

	if err := d.applySettings(ctx, settings); err != nil {
		return false, err
	}

	return true, nil
}

func (d *MeilisearchDriver) applySettings(ctx context.Context, settings IndexSettingsDriver) error {
	synonyms := settings.SynonymMap
	if synonyms == nil {
		synonyms = map[string][]string{}
	}
	task, err := d.index.UpdateSynonymsWithContext(ctx, &synonyms)
	if err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to register synonyms: " + err.Error()}
	}
	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to wait for synonyms update: " + err.Error()}
	}

	searchable := append([]string{}, settings.TextFields...)
	task, err = d.index.UpdateSearchableAttributesWithContext(ctx, &searchable)
	if err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to set searchable attributes: " + err.Error()}
	}
	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to wait for searchable attributes: " + err.Error()}
	}

	filterable := make([]interface{}, 0, len(settings.KeywordFields))
	for _, f := range settings.KeywordFields {
		filterable = append(filterable, f)
	}
	task, err = d.index.UpdateFilterableAttributesWithContext(ctx, &filterable)
	if err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to set filterable attributes: " + err.Error()}
	}
	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to wait for filterable attributes: " + err.Error()}
	}

	sortable := append([]string{}, settings.NumericFields...)
	task, err = d.index.UpdateSortableAttributesWithContext(ctx, &sortable)
	if err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to set sortable attributes: " + err.Error()}
	}
	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to wait for sortable attributes: " + err.Error()}
	}

	// fuzziness AUTO: one typo from 3 chars, two typos from 6 chars
	task, err = d.index.UpdateTypoToleranceWithContext(ctx, &meilisearch.TypoTolerance{
		Enabled: true,
		MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
			OneTypo:  3,
			TwoTypos: 6,
		},
	})
	if err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to set typo tolerance: " + err.Error()}
	}
	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "EnsureIndex", Err: "failed to wait for typo tolerance: " + err.Error()}
	}

	return nil
}

func (d *MeilisearchDriver) IndexDocument(ctx context.Context, doc ProductDocumentDriver) (*IndexAckDriver, error) {
	task, err := d.index.AddDocumentsWithContext(ctx, []ProductDocumentDriver{doc}, nil)
	if err != nil {
		return nil, &DriverError{Op: "IndexDocument", Err: err.Error()}
	}

	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return nil, &DriverError{Op: "IndexDocument", Err: "failed to wait for indexing task: " + err.Error()}
	}

	uid := task.TaskUID
	return &IndexAckDriver{
		Index:   d.indexName,
		ID:      doc.ID,
		Result:  "indexed",
		TaskUID: &uid,
	}, nil
}

func (d *MeilisearchDriver) Search(ctx context.Context, req SearchRequestDriver) ([]ProductDocumentDriver, error) {
	searchRequest := &meilisearch.SearchRequest{
		Limit: int64(req.Limit),
	}
	if filter := makeCategoryFilter(req.Category); filter != "" {
		searchRequest.Filter = filter
	}

	// an empty query is a placeholder search returning every document
	result, err := d.index.SearchWithContext(ctx, req.Query, searchRequest)
	if err != nil {
		return nil, &DriverError{Op: "Search", Err: err.Error()}
	}

	docs := make([]ProductDocumentDriver, 0, len(result.Hits))
	for _, hit := range result.Hits {
		var doc ProductDocumentDriver
		if err := hit.DecodeInto(&doc); err != nil {
			return nil, &DriverError{Op: "Search", Err: "failed to decode hit: " + err.Error()}
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (d *MeilisearchDriver) DeleteDocument(ctx context.Context, id string) error {
	task, err := d.index.DeleteDocumentWithContext(ctx, id, nil)
	if err != nil {
		return &DriverError{Op: "DeleteDocument", Err: err.Error()}
	}

	if err := d.waitForTask(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "DeleteDocument", Err: "failed to wait for deletion task: " + err.Error()}
	}
	return nil
}

func (d *MeilisearchDriver) Ping(ctx context.Context) error {
	if _, err := d.client.HealthWithContext(ctx); err != nil {
		return &DriverError{Op: "Ping", Err: err.Error()}
	}
	return nil
}

func (d *MeilisearchDriver) waitForTask(ctx context.Context, taskUID int64) error {
	task, err := d.index.WaitForTaskWithContext(ctx, taskUID, d.pollInterval)
	if err != nil {
		return err
	}
	if task.Status == meilisearch.TaskStatusFailed {
		return fmt.Errorf("task %d failed", taskUID)
	}
	return nil
}

func isNotFound(err error) bool {
	var msErr *meilisearch.Error
	if errors.As(err, &msErr) {
		return msErr.StatusCode == http.StatusNotFound
	}
	return false
}
