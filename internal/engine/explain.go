package engine

import (
	"strings"

	"github.com/kailas-cloud/sourcer/internal/domain/query/clause"
)

const bullet = "• "

// Explain renders one bullet per non-empty field and always a final platform line.
// It reads the per-field term sets, not the assembled string.
func Explain(p *Plan) string {
	var lines []string
	if !p.Role.IsEmpty() {
		lines = append(lines, "Role synonyms: "+clause.OrBlock(p.Role.Terms()))
	}
	if !p.Skills.IsEmpty() {
		lines = append(lines, "Required skills: "+clause.OrBlock(p.Skills.Terms()))
	}
	if !p.Location.IsEmpty() {
		lines = append(lines, "Location variants: "+clause.OrBlock(p.Location.Terms()))
	}
	if !p.Exclusions.IsEmpty() {
		lines = append(lines, "Exclusions: "+strings.Join(p.Exclusions.Terms(), ", "))
	}
	lines = append(lines, "Platform mode: "+p.Platform.String())

	return bullet + strings.Join(lines, "\n"+bullet)
}
