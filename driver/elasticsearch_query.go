package driver

import (
	"bytes"
	"encoding/json"
	"strings"
)

type esSynonymFilter struct {
	Type     string   `json:"type"`
	Synonyms []string `json:"synonyms"`
}

type esCustomAnalyzer struct {
	Type      string   `json:"type"`
	Tokenizer string   `json:"tokenizer"`
	Filter    []string `json:"filter"`
}

type esMappingProperty struct {
	Type     string `json:"type"`
	Analyzer string `json:"analyzer,omitempty"`
}

type esIndexDefinition struct {
	Settings struct {
		Analysis struct {
			Filter   map[string]esSynonymFilter  `json:"filter"`
			Analyzer map[string]esCustomAnalyzer `json:"analyzer"`
		} `json:"analysis"`
	} `json:"settings"`
	Mappings struct {
		Properties map[string]esMappingProperty `json:"properties"`
	} `json:"mappings"`
}

type esIndexResponse struct {
	Index       string        `json:"_index"`
	ID          string        `json:"_id"`
	Version     int64         `json:"_version"`
	Result      string        `json:"result"`
	Shards      *ShardsDriver `json:"_shards"`
	SeqNo       *int64        `json:"_seq_no"`
	PrimaryTerm *int64        `json:"_primary_term"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string        `json:"_id"`
			Source productSource `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// buildIndexDefinition renders the create-index body: a custom analyzer
// (standard tokenizer, lowercase, synonym filter) applied to the text
// fields, keyword mapping for exact-match fields and float for numbers.
func buildIndexDefinition(s IndexSettingsDriver) (*bytes.Buffer, error) {
	def := esIndexDefinition{}

	synonyms := s.SynonymLines
	if synonyms == nil {
		synonyms = []string{}
	}
	def.Settings.Analysis.Filter = map[string]esSynonymFilter{
		s.SynonymFilter: {Type: "synonym", Synonyms: synonyms},
	}
	def.Settings.Analysis.Analyzer = map[string]esCustomAnalyzer{
		s.Analyzer: {
			Type:      "custom",
			Tokenizer: "standard",
			Filter:    []string{"lowercase", s.SynonymFilter},
		},
	}

	def.Mappings.Properties = map[string]esMappingProperty{}
	for _, f := range s.TextFields {
		def.Mappings.Properties[f] = esMappingProperty{Type: "text", Analyzer: s.Analyzer}
	}
	for _, f := range s.KeywordFields {
		def.Mappings.Properties[f] = esMappingProperty{Type: "keyword"}
	}
	for _, f := range s.NumericFields {
		def.Mappings.Properties[f] = esMappingProperty{Type: "float"}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(def); err != nil {
		return nil, err
	}
	return &buf, nil
}

// buildSearchQuery renders a bool query: a fuzzy synonym-aware match on the
// name (or match_all for an empty query) filtered by an exact category term.
func buildSearchQuery(req SearchRequestDriver, analyzer string) (*bytes.Buffer, error) {
	var must any = map[string]any{"match_all": map[string]any{}}
	if strings.TrimSpace(req.Query) != "" {
		must = map[string]any{
			"match": map[string]any{
				"name": map[string]any{
					"query":     req.Query,
					"fuzziness": "AUTO",
					"analyzer":  analyzer,
				},
			},
		}
	}

	var filter any = []any{}
	if req.Category != "" {
		filter = map[string]any{
			"term": map[string]any{"category": req.Category},
		}
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
	}
	if req.Limit > 0 {
		body["size"] = req.Limit
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}
	return &buf, nil
}
