package result

// Prompt version literals identify which code path produced a bundle.
const (
	// VersionLocal marks bundles built by the deterministic engine.
	VersionLocal = "local-v1"
	// VersionAssist is what the assist prompt asks the model to return.
	VersionAssist = "peoplegpt-v1"
	// VersionFallback marks assist answers that could not be parsed as JSON.
	VersionFallback = "v1"
)

// FallbackExplanation accompanies assist answers without a usable explanation.
const FallbackExplanation = "Generated boolean string."

// Bundle is the output shared by the deterministic engine and the assist path.
type Bundle struct {
	Boolean       string `json:"boolean"`
	Explanation   string `json:"explanation"`
	PromptVersion string `json:"promptVersion"`
}

// IsComplete reports whether all three fields are populated.
func (b Bundle) IsComplete() bool {
	return b.Boolean != "" && b.Explanation != "" && b.PromptVersion != ""
}
