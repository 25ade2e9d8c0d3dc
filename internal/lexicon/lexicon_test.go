package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

const validLexicon = `{
  "categories": [
    {"key": "school", "code": "d820", "label": "学校生活", "keywords": ["学校"]}
  ],
  "negative": ["無理"],
  "positive": ["楽しい"],
  "danger": ["消えたい"]
}`

func writeLexicon(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	lex, err := Load(writeLexicon(t, validLexicon))
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(lex.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(lex.Categories))
	}
	if got := lex.Categories[0].Tag(); got.Code != "d820" || got.Label != "学校生活" {
		t.Fatalf("unexpected tag: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing lexicon file")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	if _, err := Load(writeLexicon(t, `{"categories": [`)); err == nil {
		t.Fatal("expected error for malformed lexicon")
	}
}

func TestValidateRejectsIncompleteLexicon(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name:    "no categories",
			content: `{"categories": [], "negative": ["a"], "positive": ["b"], "danger": ["c"]}`,
		},
		{
			name:    "category without keywords",
			content: `{"categories": [{"key": "school", "code": "d820", "label": "x", "keywords": []}], "negative": ["a"], "positive": ["b"], "danger": ["c"]}`,
		},
		{
			name:    "category without code",
			content: `{"categories": [{"key": "school", "label": "x", "keywords": ["y"]}], "negative": ["a"], "positive": ["b"], "danger": ["c"]}`,
		},
		{
			name:    "empty danger list",
			content: `{"categories": [{"key": "school", "code": "d820", "label": "x", "keywords": ["y"]}], "negative": ["a"], "positive": ["b"], "danger": []}`,
		},
		{
			name:    "empty sentiment lists",
			content: `{"categories": [{"key": "school", "code": "d820", "label": "x", "keywords": ["y"]}], "negative": [], "positive": [], "danger": ["c"]}`,
		},
	}

	for _, tc := range cases {
		if _, err := Load(writeLexicon(t, tc.content)); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestShippedLexiconIsValid(t *testing.T) {
	lex, err := Load(filepath.Join("..", "..", "configs", "lexicon.json"))
	if err != nil {
		t.Fatalf("shipped lexicon invalid: %v", err)
	}
	if len(lex.Categories) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(lex.Categories))
	}
}
