// Package handoff builds the natural-language sourcing prompt and deep link
// that hand the same inputs over to PeopleGPT.
package handoff

import (
	"net/url"
	"strings"
)

// BaseURL is the PeopleGPT entry point the prompt is attached to.
const BaseURL = "https://app.juicebox.ai/peoplegpt"

// Handoff is a ready-to-open PeopleGPT prompt.
type Handoff struct {
	Prompt string `json:"prompt"`
	Link   string `json:"link"`
}

// New builds the prompt from raw inputs. Empty optional sections are omitted.
func New(role, skills, exclude, location string) Handoff {
	parts := []string{"Source top " + strings.TrimSpace(role) + " candidates."}
	if s := strings.TrimSpace(skills); s != "" {
		parts = append(parts, "Must-have skills: "+s+".")
	}
	if s := strings.TrimSpace(exclude); s != "" {
		parts = append(parts, "Exclude: "+s+".")
	}
	if s := strings.TrimSpace(location); s != "" {
		parts = append(parts, "Location: "+s+".")
	}
	parts = append(parts, "Return 25 high-signal profiles with emails if available.")

	prompt := strings.Join(parts, " ")
	return Handoff{
		Prompt: prompt,
		Link:   BaseURL + "?prompt=" + url.QueryEscape(prompt),
	}
}
