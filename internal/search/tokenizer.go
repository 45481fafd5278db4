package search

import (
	"strings"
	"unicode"
)

// Tokenize splits a query into lowercase terms on whitespace. Order
// is preserved; empty queries yield nil.
func Tokenize(q string) []string {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return nil
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// PathSegments splits a lowercase path into coarse tokens for fuzzy
// presence checks: separators, dots, underscores, hyphens and
// whitespace all delimit.
func PathSegments(plow string) []string {
	return strings.FieldsFunc(plow, func(r rune) bool {
		switch r {
		case '/', '\\', '.', '_', '-':
			return true
		}
		return unicode.IsSpace(r)
	})
}
