// Package engine is the deterministic boolean query builder.
//
// Generation is a pure function of the input and the static lexicon tables:
// no I/O, no shared mutable state, safe for concurrent use. Input validation
// (required role) belongs to the caller; the engine accepts any strings.
package engine

import (
	"github.com/kailas-cloud/sourcer/internal/domain/query/clause"
	"github.com/kailas-cloud/sourcer/internal/domain/query/platform"
	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
	"github.com/kailas-cloud/sourcer/internal/domain/termset"
)

// Input is the raw form input of one generation call.
type Input struct {
	Role     string
	Skills   string
	Exclude  string
	Location string
	Platform platform.Platform
}

// InputFromRequest converts a validated request into engine input.
func InputFromRequest(r *request.Request) Input {
	return Input{
		Role:     r.Role(),
		Skills:   r.Skills(),
		Exclude:  r.Exclude(),
		Location: r.Location(),
		Platform: r.Platform(),
	}
}

// Plan holds the expanded per-field term sets of one call.
type Plan struct {
	Role       termset.Set
	Skills     termset.Set
	Location   termset.Set
	Exclusions termset.Set
	Platform   platform.Platform
}

// Expand normalizes and expands every field of the input.
func Expand(in Input) Plan {
	return Plan{
		Role:       ExpandRole(in.Role),
		Skills:     ExpandSkills(NormalizeCSV(in.Skills)),
		Location:   ExpandLocation(in.Location),
		Exclusions: ExpandExclusions(NormalizeCSV(in.Exclude)),
		Platform:   in.Platform,
	}
}

// Boolean assembles the plan into the platform-adapted query string.
func (p *Plan) Boolean() string {
	body := clause.Assemble(p.Role.Terms(), p.Skills.Terms(), p.Location.Terms(), p.Exclusions.Terms())
	return p.Platform.Apply(body)
}

// Generate builds the boolean string and its explanation.
func Generate(in Input) result.Bundle {
	plan := Expand(in)
	return result.Bundle{
		Boolean:       plan.Boolean(),
		Explanation:   Explain(&plan),
		PromptVersion: result.VersionLocal,
	}
}
