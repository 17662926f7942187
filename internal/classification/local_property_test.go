package classification

import (
	"strings"
	"testing"

	"github.com/Veraticus/conchis/internal/model"
	"pgregory.net/rapid"
)

// =============================================================================
// Generators
// =============================================================================

// genClipping mixes arbitrary strings with fragments that exercise each
// predicate so the properties see every category.
func genClipping(t *rapid.T) string {
	fragments := []string{
		"https://example.com/path",
		"def run():",
		"    return 1",
		`{"a": [1, 2]}`,
		"name,age",
		"alice,30",
		"The quick brown fox jumps.",
		"/etc/hosts",
		"42",
		"",
		"\t",
	}

	if rapid.Bool().Draw(t, "arbitrary") {
		return rapid.String().Draw(t, "content")
	}

	count := rapid.IntRange(0, 5).Draw(t, "count")
	parts := make([]string, count)
	for i := range parts {
		parts[i] = rapid.SampledFrom(fragments).Draw(t, "fragment")
	}
	return strings.Join(parts, rapid.SampledFrom([]string{"\n", " ", ""}).Draw(t, "sep"))
}

// =============================================================================
// Properties
// =============================================================================

func TestClassifyLocally_Total(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := genClipping(t)
		got := ClassifyLocally(content)
		if !got.IsValid() {
			t.Fatalf("ClassifyLocally(%q) returned undeclared category %d", content, got)
		}
	})
}

func TestClassifyLocally_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := genClipping(t)
		first := ClassifyLocally(content)
		for i := 0; i < 3; i++ {
			if again := ClassifyLocally(content); again != first {
				t.Fatalf("ClassifyLocally(%q) = %s then %s", content, first, again)
			}
		}
	})
}

func TestClassifyLocally_SurroundingWhitespaceIgnored(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := genClipping(t)
		padding := rapid.StringMatching(`[ \t\n]{0,4}`).Draw(t, "padding")
		if got, want := ClassifyLocally(padding+content+padding), ClassifyLocally(content); got != want {
			t.Fatalf("padded %q = %s, unpadded = %s", content, got, want)
		}
	})
}

func TestClassifyLocally_BlankIsUnknown(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		blank := rapid.StringMatching(`[ \t\r\n]{0,16}`).Draw(t, "blank")
		if got := ClassifyLocally(blank); got != model.CategoryUnknown {
			t.Fatalf("ClassifyLocally(%q) = %s, want Unknown", blank, got)
		}
	})
}
