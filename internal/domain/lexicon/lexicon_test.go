package lexicon

import (
	"strings"
	"testing"
)

func TestLookups(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(string) ([]string, bool)
		key    string
		first  string
	}{
		{"role", Role, "software engineer", `"software engineer"`},
		{"skill", Skill, "typescript", "TypeScript"},
		{"location", Location, "nyc", "NYC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			aliases, ok := tc.lookup(tc.key)
			if !ok {
				t.Fatalf("%q not found", tc.key)
			}
			if aliases[0] != tc.first {
				t.Errorf("first alias = %q, want %q", aliases[0], tc.first)
			}
		})
	}
}

func TestLookup_Miss(t *testing.T) {
	if _, ok := Role("astronaut"); ok {
		t.Error("expected miss for unknown role")
	}
	if _, ok := Skill("TypeScript"); ok {
		t.Error("lookups are keyed by lowercase canonical terms")
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	aliases, _ := Location("nyc")
	aliases[0] = "mutated"

	again, _ := Location("nyc")
	if again[0] != "NYC" {
		t.Errorf("table was mutated through returned slice: %q", again[0])
	}

	ex := DefaultExclusions()
	ex[0] = "mutated"
	if DefaultExclusions()[0] != "intern" {
		t.Error("default exclusions were mutated through returned slice")
	}
}

func TestTables_KeysAreCanonical(t *testing.T) {
	for _, table := range []map[string][]string{roles, skills, locations} {
		for key := range table {
			if key != strings.ToLower(strings.TrimSpace(key)) {
				t.Errorf("key %q is not canonical", key)
			}
		}
	}
}

func TestDefaultExclusions(t *testing.T) {
	want := []string{"intern", "junior", "bootcamp", "entry", "trainee"}
	got := DefaultExclusions()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
