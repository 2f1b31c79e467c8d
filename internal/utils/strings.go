// Package utils holds small helpers shared by the server and the CLI.
package utils

import (
	"strings"

	"github.com/aristath/stockdash/internal/domain"
)

// ParseSymbols splits a comma or whitespace separated list of ticker symbols.
// Symbols are normalised and de-duplicated in first-seen order; nil for empty input.
func ParseSymbols(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	var result []string
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		symbol := domain.NormalizeSymbol(f)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		result = append(result, symbol)
	}

	return result
}
