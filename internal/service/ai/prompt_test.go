package ai

import (
	"strings"
	"testing"

	"github.com/mizunoha/kokoro-relay/internal/lexicon"
)

func TestBuildSystemPromptEmbedsTagsAndScore(t *testing.T) {
	tags := []lexicon.Tag{
		{Code: "d820", Label: "学校生活"},
		{Code: "d750", Label: "友人関係"},
	}

	prompt := BuildSystemPrompt(tags, 65)

	if !strings.Contains(prompt, "学校生活") || !strings.Contains(prompt, "友人関係") {
		t.Fatal("prompt must embed the tag labels")
	}
	if !strings.Contains(prompt, "65") {
		t.Fatal("prompt must embed the numeric score")
	}
	if !strings.Contains(prompt, "診断") {
		t.Fatal("prompt must keep the no-diagnosis rule")
	}
}

func TestBuildSystemPromptCalmingDirective(t *testing.T) {
	const directive = "落ち着いた、安心できる言葉がけ"

	low := BuildSystemPrompt(nil, 30)
	if !strings.Contains(low, directive) {
		t.Fatal("expected calming directive when score is below 50")
	}

	boundary := BuildSystemPrompt(nil, 50)
	if strings.Contains(boundary, directive) {
		t.Fatal("did not expect calming directive at score 50")
	}

	high := BuildSystemPrompt(nil, 80)
	if strings.Contains(high, directive) {
		t.Fatal("did not expect calming directive when score is high")
	}
}

func TestBuildSystemPromptWithoutTags(t *testing.T) {
	prompt := BuildSystemPrompt(nil, 50)
	if strings.Contains(prompt, "関係していそうな領域") {
		t.Fatal("tag section must be omitted when no tags matched")
	}
}
