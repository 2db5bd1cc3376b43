package driver

import (
	"fmt"
)

// escapeMeilisearchValue escapes special characters in Meilisearch filter values.
func escapeMeilisearchValue(value string) string {
	var b []byte
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' || c == '"' {
			b = append(b, '\\')
		}
		b = append(b, c)
	}
	return string(b)
}

// makeCategoryFilter creates a Meilisearch equality filter for one category.
func makeCategoryFilter(category string) string {
	if category == "" {
		return ""
	}
	return fmt.Sprintf("category = \"%s\"", escapeMeilisearchValue(category))
}
