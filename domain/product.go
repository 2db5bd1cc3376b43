package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// MaxProductIDLength mirrors the engine-side limit on document ids (bytes).
const MaxProductIDLength = 512

// Product is a catalog entry as stored in the search index.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// NewProduct builds a Product from the fields as received. They are stored
// verbatim; only an empty id is replaced by a random UUID.
func NewProduct(id, name, description string, price float64, category string) (*Product, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > MaxProductIDLength {
		return nil, &ValidationError{Field: "id", Message: "id must be at most 512 bytes"}
	}

	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
	}, nil
}

// ProductQuery describes a catalog search.
// An empty Query matches every product; an empty Category applies no filter.
type ProductQuery struct {
	Query    string
	Category string
	Limit    int
}

// MatchAll reports whether the query should match every document.
func (q ProductQuery) MatchAll() bool {
	return strings.TrimSpace(q.Query) == ""
}

// HasCategory reports whether results are restricted to one category.
func (q ProductQuery) HasCategory() bool {
	return q.Category != ""
}

// IndexResult is the engine's acknowledgement of a document write.
// Elasticsearch fills the underscore fields, Meilisearch the task uid.
type IndexResult struct {
	Index       string      `json:"_index"`
	ID          string      `json:"_id"`
	Version     int64       `json:"_version,omitempty"`
	Result      string      `json:"result"`
	Shards      *ShardsInfo `json:"_shards,omitempty"`
	SeqNo       *int64      `json:"_seq_no,omitempty"`
	PrimaryTerm *int64      `json:"_primary_term,omitempty"`
	TaskUID     *int64      `json:"taskUid,omitempty"`
}

// ShardsInfo reports how many shard copies applied a write.
type ShardsInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// ErrEmptyProductID is returned when an operation needs an explicit id.
var ErrEmptyProductID = errors.New("product id cannot be empty")
