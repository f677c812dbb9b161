package sourcer

// Request holds the raw form inputs of one generation.
// Skills and Exclude are comma-separated lists. An empty Platform means LinkedIn.
type Request struct {
	Role     string
	Skills   string
	Exclude  string
	Location string
	Platform string
}

// Result is a generated boolean with its explanation.
type Result struct {
	Boolean       string `json:"boolean"`
	Explanation   string `json:"explanation"`
	PromptVersion string `json:"promptVersion"`
}

// BatchResult is the outcome of one batch entry. Err is nil on success.
type BatchResult struct {
	Index  int
	Result Result
	Err    error
}

// Platform describes a supported search surface.
type Platform struct {
	Name   string
	Prefix string // empty for Generic
}

// Handoff is a natural-language sourcing prompt with a ready-to-open link.
type Handoff struct {
	Prompt string `json:"prompt"`
	Link   string `json:"link"`
}
