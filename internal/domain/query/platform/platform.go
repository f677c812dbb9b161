package platform

import (
	"fmt"
	"strings"
)

// Platform is the target search surface a query is adapted for.
type Platform string

// Supported platforms.
const (
	LinkedIn Platform = "LinkedIn"
	GitHub   Platform = "GitHub"
	// GoogleXRay restricts a web search to LinkedIn people pages.
	GoogleXRay Platform = "Google X-Ray"
	// Generic leaves the boolean body untouched (ATS/CRM fields).
	Generic Platform = "Generic"
)

// Default is used when the caller does not pick a platform.
const Default = LinkedIn

const (
	linkedInSites = "(site:linkedin.com/in OR site:linkedin.com/pub)"
	gitHubProfile = "site:github.com (in:readme OR in:bio)"
)

// prefixes is the adapter table. Adding a platform means adding one row here.
var prefixes = map[Platform]string{
	LinkedIn:   linkedInSites,
	GitHub:     gitHubProfile,
	GoogleXRay: linkedInSites,
	Generic:    "",
}

// order fixes the listing order of All.
var order = []Platform{LinkedIn, GitHub, GoogleXRay, Generic}

var aliases = map[string]Platform{
	"linkedin":     LinkedIn,
	"github":       GitHub,
	"google x-ray": GoogleXRay,
	"google-xray":  GoogleXRay,
	"xray":         GoogleXRay,
	"x-ray":        GoogleXRay,
	"google":       GoogleXRay,
	"generic":      Generic,
}

// IsValid checks if the platform is one of the supported values.
func (p Platform) IsValid() bool {
	_, ok := prefixes[p]
	return ok
}

// String returns the display name of the platform.
func (p Platform) String() string { return string(p) }

// Prefix returns the site/search-operator prefix, empty for Generic.
func (p Platform) Prefix() string { return prefixes[p] }

// Apply wraps an assembled boolean body with the platform prefix.
// An empty body yields the prefix alone, never a dangling AND.
func (p Platform) Apply(body string) string {
	body = strings.TrimSpace(body)
	prefix := prefixes[p]
	switch {
	case prefix == "":
		return body
	case body == "":
		return prefix
	default:
		return prefix + " AND " + body
	}
}

// Parse resolves a platform name case-insensitively. Empty input yields Default.
func Parse(s string) (Platform, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Default, nil
	}
	if p, ok := aliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unsupported platform %q", s)
}

// All returns the supported platforms in display order.
func All() []Platform {
	out := make([]Platform, len(order))
	copy(out, order)
	return out
}
