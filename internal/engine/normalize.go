package engine

import "strings"

// MaxTerms caps how many comma-separated terms are taken from one field.
const MaxTerms = 20

// NormalizeCSV splits raw text on commas, trims each piece, drops empty
// pieces and keeps at most MaxTerms. Case is preserved.
func NormalizeCSV(raw string) []string {
	var terms []string
	for _, piece := range strings.Split(raw, ",") {
		t := strings.TrimSpace(piece)
		if t == "" {
			continue
		}
		terms = append(terms, t)
		if len(terms) == MaxTerms {
			break
		}
	}
	return terms
}

// CanonicalKey lowercases and trims a term for lexicon lookup only.
func CanonicalKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
