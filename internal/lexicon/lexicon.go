package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Tag is a functioning-domain label attached to a message, using ICF codes.
type Tag struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Category binds an ICF tag to the keywords that trigger it.
type Category struct {
	Key      string   `json:"key"`
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// Tag returns the ICF tag for the category.
func (c Category) Tag() Tag {
	return Tag{Code: c.Code, Label: c.Label}
}

// Lexicon holds the static vocabulary the analysis components scan against.
// Loaded once at startup and treated as immutable afterwards.
type Lexicon struct {
	Categories []Category `json:"categories"`
	Negative   []string   `json:"negative"`
	Positive   []string   `json:"positive"`
	Danger     []string   `json:"danger"`
}

// Load reads and validates the lexicon resource. Any failure here is a
// startup-fatal condition for the caller.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}

	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon %s: %w", path, err)
	}

	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lexicon %s: %w", path, err)
	}

	return &lex, nil
}

// Validate checks the loaded vocabulary is complete enough to serve.
func (l *Lexicon) Validate() error {
	if len(l.Categories) == 0 {
		return fmt.Errorf("no domain categories defined")
	}
	for i, cat := range l.Categories {
		if strings.TrimSpace(cat.Key) == "" {
			return fmt.Errorf("category %d has no key", i)
		}
		if strings.TrimSpace(cat.Code) == "" || strings.TrimSpace(cat.Label) == "" {
			return fmt.Errorf("category %q missing code or label", cat.Key)
		}
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("category %q has no keywords", cat.Key)
		}
		for _, kw := range cat.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("category %q has an empty keyword", cat.Key)
			}
		}
	}

	if len(l.Negative) == 0 || len(l.Positive) == 0 {
		return fmt.Errorf("sentiment word lists must not be empty")
	}
	if len(l.Danger) == 0 {
		return fmt.Errorf("danger word list must not be empty")
	}

	return nil
}
