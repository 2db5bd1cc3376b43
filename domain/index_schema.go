package domain

const (
	// DefaultIndexName is the catalog index used when none is configured.
	DefaultIndexName = "products2"
	// SynonymAnalyzerName names the engine-side analyzer chain.
	SynonymAnalyzerName = "synonym_analyzer"
	// SynonymFilterName names the synonym token filter inside the analyzer.
	SynonymFilterName = "synonym_filter"
)

// IndexSchema describes the catalog index the engine must hold.
type IndexSchema struct {
	Name          string
	Analyzer      string
	Synonyms      SynonymRules
	TextFields    []string
	KeywordFields []string
	NumericFields []string
}

// NewProductIndexSchema returns the schema for the product catalog.
func NewProductIndexSchema(name string, synonyms SynonymRules) IndexSchema {
	if name == "" {
		name = DefaultIndexName
	}
	return IndexSchema{
		Name:          name,
		Analyzer:      SynonymAnalyzerName,
		Synonyms:      synonyms,
		TextFields:    []string{"name", "description"},
		KeywordFields: []string{"category"},
		NumericFields: []string{"price"},
	}
}
