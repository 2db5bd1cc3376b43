package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxCategoryLength bounds the category filter value.
const MaxCategoryLength = 256

// ValidateCategory checks a category filter before it is sent to the engine.
// An empty category is valid and means "no filter".
func ValidateCategory(category string) error {
	if category == "" {
		return nil
	}

	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Message: "whitespace-only category not allowed"}
	}

	if len(category) > MaxCategoryLength {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("category too long: maximum %d characters, got %d", MaxCategoryLength, len(category)),
		}
	}

	for _, r := range category {
		if unicode.IsControl(r) {
			return &ValidationError{Field: "category", Message: "control characters not allowed in category"}
		}
	}

	return nil
}
