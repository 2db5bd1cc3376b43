package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the catalog instruments. It stays nil until InitMetrics runs,
// and every recording helper is a no-op on a nil receiver.
var Metrics *CatalogMetrics

// CatalogMetrics contains all metric instruments.
type CatalogMetrics struct {
	IndexedTotal   metric.Int64Counter
	DeletedTotal   metric.Int64Counter
	SearchesTotal  metric.Int64Counter
	ErrorsTotal    metric.Int64Counter
	IndexDuration  metric.Float64Histogram
	SearchDuration metric.Float64Histogram
	SearchHits     metric.Int64Histogram
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("catalog-search")

	indexedTotal, err := meter.Int64Counter("catalog_search_products_indexed_total",
		metric.WithDescription("Total number of products added or replaced"),
	)
	if err != nil {
		return err
	}

	deletedTotal, err := meter.Int64Counter("catalog_search_products_deleted_total",
		metric.WithDescription("Total number of products deleted from the index"),
	)
	if err != nil {
		return err
	}

	searchesTotal, err := meter.Int64Counter("catalog_search_searches_total",
		metric.WithDescription("Total number of search requests"),
	)
	if err != nil {
		return err
	}

	errorsTotal, err := meter.Int64Counter("catalog_search_errors_total",
		metric.WithDescription("Total number of engine errors by operation"),
	)
	if err != nil {
		return err
	}

	indexDuration, err := meter.Float64Histogram("catalog_search_index_duration_seconds",
		metric.WithDescription("Product write duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	searchDuration, err := meter.Float64Histogram("catalog_search_search_duration_seconds",
		metric.WithDescription("Search request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	searchHits, err := meter.Int64Histogram("catalog_search_search_hits",
		metric.WithDescription("Number of products returned per search"),
	)
	if err != nil {
		return err
	}

	Metrics = &CatalogMetrics{
		IndexedTotal:   indexedTotal,
		DeletedTotal:   deletedTotal,
		SearchesTotal:  searchesTotal,
		ErrorsTotal:    errorsTotal,
		IndexDuration:  indexDuration,
		SearchDuration: searchDuration,
		SearchHits:     searchHits,
	}

	return nil
}

func (m *CatalogMetrics) RecordIndexed(ctx context.Context, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.IndexedTotal.Add(ctx, 1)
	m.IndexDuration.Record(ctx, elapsed.Seconds())
}

func (m *CatalogMetrics) RecordDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.DeletedTotal.Add(ctx, 1)
}

func (m *CatalogMetrics) RecordSearch(ctx context.Context, elapsed time.Duration, hits int, filtered bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("filtered", filtered))
	m.SearchesTotal.Add(ctx, 1, attrs)
	m.SearchDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.SearchHits.Record(ctx, int64(hits), attrs)
}

func (m *CatalogMetrics) RecordError(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
