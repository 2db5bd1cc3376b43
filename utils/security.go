// Package utils holds query hygiene helpers shared by the search usecases.
package utils

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SecurityConfig controls how search queries are validated and cleaned.
type SecurityConfig struct {
	// MaxQueryLength is the maximum query length in bytes.
	MaxQueryLength int

	// NormalizeWhitespace collapses tabs, newlines and repeated spaces.
	NormalizeWhitespace bool
}

const (
	DefaultMaxQueryLength = 1000
)

func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxQueryLength:      DefaultMaxQueryLength,
		NormalizeWhitespace: true,
	}
}

// QuerySanitizer validates and cleans free-text search queries before they
// reach the engine. The query travels as a JSON string value and never
// becomes part of a filter expression, so its text (markup, quotes, dashes,
// wildcards) is forwarded as typed and left to the engine's analyzer.
type QuerySanitizer struct {
	config *SecurityConfig
}

var zeroWidthChars = []string{
	"\u200B", // zero width space
	"\u200C", // zero width non-joiner
	"\u200D", // zero width joiner
	"\uFEFF", // BOM
	"\u200E", // left-to-right mark
	"\u200F", // right-to-left mark
}

func NewQuerySanitizer(config *SecurityConfig) *QuerySanitizer {
	if config == nil {
		config = DefaultSecurityConfig()
	}
	return &QuerySanitizer{config: config}
}

// ValidateQuery rejects queries that are too long, not valid UTF-8 or that
// carry control characters.
func (s *QuerySanitizer) ValidateQuery(ctx context.Context, query string) error {
	if len(query) > s.config.MaxQueryLength {
		return &SecurityError{
			Type:    "query_too_long",
			Message: "Query exceeds maximum length",
			Query:   query,
		}
	}

	if !utf8.ValidString(query) {
		return &SecurityError{
			Type:    "invalid_encoding",
			Message: "Query is not valid UTF-8",
			Query:   query,
		}
	}

	for _, r := range query {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return &SecurityError{
				Type:    "dangerous_character",
				Message: "Query contains null byte or control character",
				Query:   query,
			}
		}
	}

	return nil
}

// SanitizeQuery drops invisible characters and collapses whitespace. It
// returns "" for whitespace-only input; callers treat that as match-all.
func (s *QuerySanitizer) SanitizeQuery(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", nil
	}

	for _, zw := range zeroWidthChars {
		query = strings.ReplaceAll(query, zw, "")
	}

	if s.config.NormalizeWhitespace {
		query = strings.Join(strings.Fields(query), " ")
	}

	return query, nil
}

// SecurityError represents a rejected query.
type SecurityError struct {
	Type    string
	Message string
	Query   string
}

func (e *SecurityError) Error() string {
	return e.Message
}
