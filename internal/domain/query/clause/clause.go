// Package clause renders term sets as boolean clauses.
package clause

import (
	"strings"
	"unicode"
)

// OrBlock renders terms as a disjunction: empty for no terms, the bare term
// for one, and a parenthesized OR-list otherwise. Input order is kept.
func OrBlock(terms []string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}

// NotBlock negates each term independently and joins them with spaces.
// Terms with whitespace or quotes are wrapped in quotes with inner quotes escaped.
func NotBlock(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = "NOT " + quoteExclusion(t)
	}
	return strings.Join(parts, " ")
}

// Assemble joins the non-empty field blocks with AND in fixed order:
// role, skills, location, exclusions.
func Assemble(role, skills, location, exclusions []string) string {
	blocks := []string{OrBlock(role), OrBlock(skills), OrBlock(location), NotBlock(exclusions)}
	parts := blocks[:0]
	for _, b := range blocks {
		if b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, " AND ")
}

func quoteExclusion(t string) string {
	if !strings.ContainsRune(t, '"') && strings.IndexFunc(t, unicode.IsSpace) < 0 {
		return t
	}
	return `"` + strings.ReplaceAll(t, `"`, `\"`) + `"`
}
