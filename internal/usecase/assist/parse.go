package assist

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
)

var (
	jsonFence = regexp.MustCompile("(?s)```json\\n(.*?)\\n```")
	bareFence = regexp.MustCompile("(?s)```\\n(.*?)\\n```")
)

type answer struct {
	Boolean       string          `json:"boolean"`
	Explanation   json.RawMessage `json:"explanation"`
	PromptVersion string          `json:"promptVersion"`
}

// ParseAnswer extracts a bundle from a model answer. Candidates are tried in order:
// a ```json fenced block, a bare fenced block, then the whole text. When none
// decodes to an object with a boolean, the trimmed text itself becomes the
// boolean with the fallback explanation and version; ok reports which path won.
func ParseAnswer(text string) (b result.Bundle, ok bool) {
	content := strings.TrimSpace(text)

	for _, candidate := range candidates(content) {
		if got, decoded := decode(candidate); decoded {
			return got, true
		}
	}

	return result.Bundle{
		Boolean:       content,
		Explanation:   result.FallbackExplanation,
		PromptVersion: result.VersionFallback,
	}, false
}

func candidates(content string) []string {
	var out []string
	if m := jsonFence.FindStringSubmatch(content); m != nil {
		out = append(out, m[1])
	}
	if m := bareFence.FindStringSubmatch(content); m != nil {
		out = append(out, m[1])
	}
	return append(out, content)
}

func decode(candidate string) (result.Bundle, bool) {
	candidate = strings.TrimSpace(candidate)
	if !strings.HasPrefix(candidate, "{") {
		return result.Bundle{}, false
	}
	var a answer
	if err := json.Unmarshal([]byte(candidate), &a); err != nil {
		return result.Bundle{}, false
	}
	if strings.TrimSpace(a.Boolean) == "" {
		return result.Bundle{}, false
	}

	b := result.Bundle{
		Boolean:       strings.TrimSpace(a.Boolean),
		Explanation:   explanationText(a.Explanation),
		PromptVersion: a.PromptVersion,
	}
	if b.Explanation == "" {
		b.Explanation = result.FallbackExplanation
	}
	if b.PromptVersion == "" {
		b.PromptVersion = result.VersionAssist
	}
	return b, true
}

// explanationText accepts the explanation as a string or a list of bullet strings.
func explanationText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return "• " + strings.Join(list, "\n• ")
	}
	return ""
}
