package termset

import "strings"

// Set is an ordered set of query terms: first-seen order, exact-string membership.
// The zero value is an empty set ready to use.
type Set struct {
	terms []string
	seen  map[string]struct{}
}

// New creates a set from terms, dropping duplicates.
func New(terms ...string) Set {
	var s Set
	s.Add(terms...)
	return s
}

// Add appends terms not already present. Empty strings are ignored.
func (s *Set) Add(terms ...string) {
	for _, t := range terms {
		if t == "" {
			continue
		}
		if s.seen == nil {
			s.seen = make(map[string]struct{})
		}
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.terms = append(s.terms, t)
	}
}

// Union adds every term of other in its order.
func (s *Set) Union(other Set) { s.Add(other.terms...) }

// Contains reports whether term is a member.
func (s Set) Contains(term string) bool {
	_, ok := s.seen[term]
	return ok
}

// Len returns the number of terms.
func (s Set) Len() int { return len(s.terms) }

// IsEmpty reports whether the set has no terms.
func (s Set) IsEmpty() bool { return len(s.terms) == 0 }

// Terms returns a copy of the terms in insertion order.
func (s Set) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Quote wraps a multi-word term in double quotes.
// Terms that already contain a quote and single bare words are returned trimmed but unquoted.
func Quote(term string) string {
	t := strings.TrimSpace(term)
	if t == "" || strings.Contains(t, `"`) {
		return t
	}
	if strings.ContainsAny(t, " \t\n\r") {
		return `"` + t + `"`
	}
	return t
}
