package engine

import (
	"strings"

	"github.com/kailas-cloud/sourcer/internal/domain/lexicon"
	"github.com/kailas-cloud/sourcer/internal/domain/termset"
)

// ExpandRole returns the role as typed (quoted when multi-word) followed by its lexicon aliases.
func ExpandRole(role string) termset.Set {
	return expandTerm(role, lexicon.Role)
}

// ExpandSkills merges every skill and its aliases into one flattened set,
// so the query carries a single OR-block across all skills.
func ExpandSkills(skills []string) termset.Set {
	var out termset.Set
	for _, skill := range skills {
		out.Union(expandTerm(skill, lexicon.Skill))
	}
	return out
}

// ExpandLocation returns the location and its lexicon aliases. A location that
// already carries OR logic ("a OR b", "a|b") is kept as a single term.
func ExpandLocation(location string) termset.Set {
	if strings.TrimSpace(location) == "" {
		return termset.Set{}
	}
	if isPreComposed(location) {
		return termset.New(strings.TrimSpace(location))
	}
	return expandTerm(location, lexicon.Location)
}

// ExpandExclusions returns the default seniority exclusions followed by user exclusions.
func ExpandExclusions(user []string) termset.Set {
	out := termset.New(lexicon.DefaultExclusions()...)
	out.Add(user...)
	return out
}

func expandTerm(raw string, lookup func(string) ([]string, bool)) termset.Set {
	if strings.TrimSpace(raw) == "" {
		return termset.Set{}
	}
	out := termset.New(termset.Quote(raw))
	if aliases, ok := lookup(CanonicalKey(raw)); ok {
		out.Add(aliases...)
	}
	return out
}

func isPreComposed(location string) bool {
	return strings.Contains(location, " OR ") || strings.Contains(location, "|")
}
