package driver

// ProductDocumentDriver is a product as exchanged with a search engine.
type ProductDocumentDriver struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// productSource is the document body stored by engines that keep the id
// outside the source (Elasticsearch `_id`).
type productSource struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

func (d ProductDocumentDriver) source() productSource {
	return productSource{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
	}
}

// IndexSettingsDriver carries everything needed to create the catalog index.
type IndexSettingsDriver struct {
	Name          string
	Analyzer      string
	SynonymFilter string
	// SynonymLines is the Solr-format list used by analyzer-based engines.
	SynonymLines []string
	// SynonymMap is the expanded dictionary used by dictionary-based engines.
	SynonymMap    map[string][]string
	TextFields    []string
	KeywordFields []string
	NumericFields []string
}

// SearchRequestDriver is an engine-neutral search request.
type SearchRequestDriver struct {
	Query    string
	Category string
	Limit    int
}

// IndexAckDriver is the engine's acknowledgement of a write.
type IndexAckDriver struct {
	Index       string
	ID          string
	Version     int64
	Result      string
	Shards      *ShardsDriver
	SeqNo       *int64
	PrimaryTerm *int64
	TaskUID     *int64
}

type ShardsDriver struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// DriverError represents an error from the driver layer
type DriverError struct {
	Op  string
	Err string
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}
