// Package lexicon holds the static synonym tables used for query expansion.
//
// Keys are canonical lowercase terms. Alias lists are already rendered for
// output: multi-word aliases carry their own double quotes. The tables are
// process-wide and never mutated; lookups return copies.
package lexicon

var roles = map[string][]string{
	"software engineer": {`"software engineer"`, "developer", "programmer", "SWE", `"software developer"`, "engineer"},
	"data scientist":    {`"data scientist"`, `"machine learning"`, `"ml engineer"`, `"ai scientist"`, `"data analyst"`},
	"product manager":   {`"product manager"`, "PM", `"product owner"`, `"program manager"`},
	"designer":          {"designer", `"ux designer"`, `"ui designer"`, `"product designer"`, `"visual designer"`},
	"marketing":         {"marketing", `"digital marketing"`, `"growth marketing"`, `"content marketing"`},
	"sales":             {"sales", `"account executive"`, `"sales rep"`, `"business development"`, `"account manager"`},
	"engineer":          {"engineer", `"software engineer"`, "developer", "programmer", "SWE"},
	"developer":         {"developer", `"software developer"`, `"web developer"`, "programmer", "engineer"},
	"analyst":           {"analyst", `"data analyst"`, `"business analyst"`, `"financial analyst"`},
}

var skills = map[string][]string{
	"javascript":       {"JavaScript", "JS", "Node.js", "NodeJS"},
	"typescript":       {"TypeScript", "TS"},
	"python":           {"Python", "py"},
	"react":            {"React", "ReactJS", "React.js"},
	"node":             {"Node.js", "NodeJS", "Node"},
	"aws":              {"AWS", `"Amazon Web Services"`},
	"kubernetes":       {"Kubernetes", "k8s"},
	"docker":           {"Docker", "containerization"},
	"sql":              {"SQL", "PostgreSQL", "MySQL", "database"},
	"machine learning": {`"machine learning"`, "ML", `"artificial intelligence"`, "AI"},
}

var locations = map[string][]string{
	"nyc":           {"NYC", `"New York"`, `"New York City"`, "Manhattan", "Brooklyn"},
	"new york":      {"NYC", `"New York"`, `"New York City"`, "Manhattan"},
	"sf":            {"SF", `"San Francisco"`, `"Bay Area"`, `"Silicon Valley"`},
	"san francisco": {"SF", `"San Francisco"`, `"Bay Area"`},
	"la":            {"LA", `"Los Angeles"`, `"Greater LA"`},
	"los angeles":   {"LA", `"Los Angeles"`, `"Greater LA"`},
	"boston":        {"Boston", `"Greater Boston"`, "Cambridge", "Somerville"},
	"seattle":       {"Seattle", `"Greater Seattle"`, "Bellevue", "Redmond"},
	"chicago":       {"Chicago", `"Greater Chicago"`, `"Chicagoland"`},
	"austin":        {"Austin", `"Greater Austin"`, `"Austin TX"`},
	"denver":        {"Denver", `"Greater Denver"`, "Boulder"},
	"london":        {"London", `"Greater London"`, "UK"},
	"toronto":       {"Toronto", `"Greater Toronto"`, "Canada"},
	"remote":        {"remote", `"remote work"`, `"work from home"`, "WFH"},
}

// defaultExclusions are seniority markers excluded from every query.
var defaultExclusions = []string{"intern", "junior", "bootcamp", "entry", "trainee"}

// Role returns the aliases for a canonical role key.
func Role(key string) ([]string, bool) { return lookup(roles, key) }

// Skill returns the aliases for a canonical skill key.
func Skill(key string) ([]string, bool) { return lookup(skills, key) }

// Location returns the aliases for a canonical location key.
func Location(key string) ([]string, bool) { return lookup(locations, key) }

// DefaultExclusions returns the seniority exclusions applied to every query.
func DefaultExclusions() []string {
	out := make([]string, len(defaultExclusions))
	copy(out, defaultExclusions)
	return out
}

func lookup(table map[string][]string, key string) ([]string, bool) {
	aliases, ok := table[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(aliases))
	copy(out, aliases)
	return out, true
}
