package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sourcer/internal/domain"
	"github.com/kailas-cloud/sourcer/internal/domain/query/platform"
)

// MaxFieldLength is the maximum allowed length of any raw input field.
const MaxFieldLength = 4096

// Request is a validated generation request. Optional fields keep their raw text;
// splitting and expansion happen in the engine.
type Request struct {
	role     string
	skills   string
	exclude  string
	location string
	platform platform.Platform
}

// New validates raw form inputs. Role is required; platform defaults to LinkedIn.
func New(role, skills, exclude, location, platformName string) (Request, error) {
	if strings.TrimSpace(role) == "" {
		return Request{}, fmt.Errorf("%w: role is required", domain.ErrInvalidInput)
	}
	fields := map[string]string{"role": role, "skills": skills, "exclude": exclude, "location": location}
	for _, name := range []string{"role", "skills", "exclude", "location"} {
		if len(fields[name]) > MaxFieldLength {
			return Request{}, fmt.Errorf("%w: %s too long (max %d chars)", domain.ErrInvalidInput, name, MaxFieldLength)
		}
	}
	p, err := platform.Parse(platformName)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	return Request{
		role:     role,
		skills:   skills,
		exclude:  exclude,
		location: location,
		platform: p,
	}, nil
}

// Role returns the raw role title.
func (r *Request) Role() string { return r.role }

// Skills returns the raw comma-separated skills.
func (r *Request) Skills() string { return r.skills }

// Exclude returns the raw comma-separated exclusions.
func (r *Request) Exclude() string { return r.exclude }

// Location returns the raw location text.
func (r *Request) Location() string { return r.location }

// Platform returns the target platform.
func (r *Request) Platform() platform.Platform { return r.platform }
