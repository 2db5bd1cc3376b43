package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"catalog-search/domain"
)

// SynonymsFile is the on-disk format of SYNONYMS_FILE:
//
//	synonyms:
//	  - "panasonic, samsung, apple"
//	  - "tv, television"
type SynonymsFile struct {
	Synonyms []string `yaml:"synonyms"`
}

// LoadSynonyms parses the synonym file at path. An empty path yields the
// built-in rules.
func LoadSynonyms(path string) (domain.SynonymRules, error) {
	if path == "" {
		return domain.ParseSynonymRules(domain.DefaultSynonymLines)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms file: %w", err)
	}

	var f SynonymsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse synonyms file %s: %w", path, err)
	}

	rules, err := domain.ParseSynonymRules(f.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("synonyms file %s: %w", path, err)
	}
	return rules, nil
}
