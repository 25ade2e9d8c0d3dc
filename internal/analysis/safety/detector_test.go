package safety

import (
	"strings"
	"testing"
)

var dangerWords = []string{"死にたい", "消えたい", "自殺", "いなくなりたい", "リストカット"}

func TestDangerousEachConfiguredKeyword(t *testing.T) {
	detector := NewDetector(dangerWords)

	for _, word := range dangerWords {
		if !detector.Dangerous("もう" + word + "と思った") {
			t.Errorf("expected %q to trigger the detector", word)
		}
	}
}

func TestDangerousCrisisPhrase(t *testing.T) {
	detector := NewDetector(dangerWords)

	if !detector.Dangerous("もう無理、消えたい") {
		t.Fatal("expected crisis phrase to trigger the detector")
	}
}

func TestNotDangerous(t *testing.T) {
	detector := NewDetector(dangerWords)

	cases := []string{
		"",
		"今日は学校で友達と話して楽しかった",
		"宿題が多くて疲れた",
	}
	for _, text := range cases {
		if detector.Dangerous(text) {
			t.Errorf("did not expect %q to trigger the detector", text)
		}
	}
}

func TestResponderMessageIncludesBreathingGuide(t *testing.T) {
	responder := NewResponder()

	msg := responder.Message()
	if !strings.Contains(msg, responder.BreathingGuide()) {
		t.Fatal("safety message must end with the breathing guide")
	}
	if !strings.Contains(msg, "4秒") || !strings.Contains(msg, "2秒") || !strings.Contains(msg, "6秒") {
		t.Fatal("breathing guide must keep the 4-2-6 cadence")
	}
}

func TestResponderMessageIsStable(t *testing.T) {
	responder := NewResponder()
	if responder.Message() != responder.Message() {
		t.Fatal("safety message must be static")
	}
}
