package safety

import (
	"strings"
)

// Detector flags messages that contain crisis-indicator keywords.
//
// Matching is plain substring containment against a fixed word list, so
// indirect or euphemistic phrasing will not be caught. That limitation is
// inherent to the approach; the detector errs on the cheap, deterministic
// side and leaves semantic understanding to human follow-up.
type Detector struct {
	keywords []string
}

// NewDetector builds a detector over the configured crisis keywords.
func NewDetector(keywords []string) *Detector {
	return &Detector{keywords: keywords}
}

// Dangerous reports whether any crisis keyword appears in text.
func (d *Detector) Dangerous(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}

	for _, kw := range d.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
