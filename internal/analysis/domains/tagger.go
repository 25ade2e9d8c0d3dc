package domains

import (
	"strings"

	"github.com/mizunoha/kokoro-relay/internal/lexicon"
)

// Tagger matches message text against the fixed functioning-domain
// categories of the lexicon.
type Tagger struct {
	categories []lexicon.Category
}

// NewTagger builds a tagger over the loaded lexicon categories.
func NewTagger(lex *lexicon.Lexicon) *Tagger {
	return &Tagger{categories: lex.Categories}
}

// Detect returns the tags whose keywords appear in text, in category
// declaration order. Pure function of text and the static vocabulary.
func (t *Tagger) Detect(text string) []lexicon.Tag {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	var tags []lexicon.Tag
	for _, cat := range t.categories {
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(normalized, strings.ToLower(kw)) {
				tags = append(tags, cat.Tag())
				break
			}
		}
	}

	return tags
}
