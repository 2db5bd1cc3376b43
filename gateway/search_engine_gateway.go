package gateway

import (
	"context"

	"catalog-search/domain"
	"catalog-search/driver"
)

// SearchDriver is implemented by every engine driver.
type SearchDriver interface {
	EnsureIndex(ctx context.Context, settings driver.IndexSettingsDriver) (bool, error)
	IndexDocument(ctx context.Context, doc driver.ProductDocumentDriver) (*driver.IndexAckDriver, error)
	Search(ctx context.Context, req driver.SearchRequestDriver) ([]driver.ProductDocumentDriver, error)
	DeleteDocument(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type SearchEngineGateway struct {
	driver SearchDriver
}

func NewSearchEngineGateway(driver SearchDriver) *SearchEngineGateway {
	return &SearchEngineGateway{
		driver: driver,
	}
}

func (g *SearchEngineGateway) EnsureIndex(ctx context.Context, schema domain.IndexSchema) (bool, error) {
	settings := driver.IndexSettingsDriver{
		Name:          schema.Name,
		Analyzer:      schema.Analyzer,
		SynonymFilter: domain.SynonymFilterName,
		SynonymLines:  schema.Synonyms.Lines(),
		SynonymMap:    schema.Synonyms.ToMap(),
		TextFields:    schema.TextFields,
		KeywordFields: schema.KeywordFields,
		NumericFields: schema.NumericFields,
	}

	created, err := g.driver.EnsureIndex(ctx, settings)
	if err != nil {
		return false, &domain.SearchEngineError{
			Op:  "EnsureIndex",
			Err: err.Error(),
		}
	}
	return created, nil
}

func (g *SearchEngineGateway) IndexProduct(ctx context.Context, product domain.Product) (*domain.IndexResult, error) {
	ack, err := g.driver.IndexDocument(ctx, driver.ProductDocumentDriver{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
	})
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "IndexProduct",
			Err: err.Error(),
		}
	}

	result := &domain.IndexResult{
		Index:       ack.Index,
		ID:          ack.ID,
		Version:     ack.Version,
		Result:      ack.Result,
		SeqNo:       ack.SeqNo,
		PrimaryTerm: ack.PrimaryTerm,
		TaskUID:     ack.TaskUID,
	}
	if ack.Shards != nil {
		result.Shards = &domain.ShardsInfo{
			Total:      ack.Shards.Total,
			Successful: ack.Shards.Successful,
			Failed:     ack.Shards.Failed,
		}
	}
	return result, nil
}

func (g *SearchEngineGateway) SearchProducts(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	driverResults, err := g.driver.Search(ctx, driver.SearchRequestDriver{
		Query:    query.Query,
		Category: query.Category,
		Limit:    query.Limit,
	})
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "SearchProducts",
			Err: err.Error(),
		}
	}
	return g.convertDocs(driverResults), nil
}

func (g *SearchEngineGateway) DeleteProduct(ctx context.Context, id string) error {
	if err := g.driver.DeleteDocument(ctx, id); err != nil {
		return &domain.SearchEngineError{
			Op:  "DeleteProduct",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) Ping(ctx context.Context) error {
	if err := g.driver.Ping(ctx); err != nil {
		return &domain.SearchEngineError{Op: "Ping", Err: err.Error()}
	}
	return nil
}

func (g *SearchEngineGateway) convertDocs(driverResults []driver.ProductDocumentDriver) []domain.Product {
	domainResults := make([]domain.Product, len(driverResults))
	for i, d := range driverResults {
		domainResults[i] = domain.Product{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			Category:    d.Category,
		}
	}
	return domainResults
}
