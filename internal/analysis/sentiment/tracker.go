package sentiment

import (
	"strings"
	"sync"
	"time"
)

const (
	initialScore = 50
	step         = 5
	minScore     = 0
	maxScore     = 100
)

// Sample is one point of the score history.
type Sample struct {
	Time  time.Time
	Score int
}

// Tracker owns the process-wide sentiment score and its history. Updates are
// serialized by a mutex so concurrent requests cannot lose writes. History is
// a ring bounded by capacity; oldest samples are evicted first. A score
// update is never rolled back when a later pipeline step fails.
type Tracker struct {
	mu       sync.Mutex
	score    int
	history  []Sample
	capacity int
	now      func() time.Time
}

// NewTracker returns a tracker starting at the neutral midpoint with the
// given history capacity.
func NewTracker(capacity int) *Tracker {
	if capacity < 1 {
		capacity = 1
	}
	return &Tracker{
		score:    initialScore,
		history:  make([]Sample, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Update adjusts the score by the listed words found in text and returns the
// clamped result. Each listed word counts once per scan no matter how often
// it occurs in the text.
func (t *Tracker) Update(text string, negative, positive []string) int {
	normalized := strings.ToLower(strings.TrimSpace(text))

	delta := 0
	for _, word := range negative {
		if word != "" && strings.Contains(normalized, strings.ToLower(word)) {
			delta -= step
		}
	}
	for _, word := range positive {
		if word != "" && strings.Contains(normalized, strings.ToLower(word)) {
			delta += step
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.score = clamp(t.score + delta)
	if len(t.history) == t.capacity {
		copy(t.history, t.history[1:])
		t.history = t.history[:t.capacity-1]
	}
	t.history = append(t.history, Sample{Time: t.now().UTC(), Score: t.score})

	return t.score
}

// Score returns the current clamped score.
func (t *Tracker) Score() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.score
}

// History returns a copy of the recorded samples, oldest first.
func (t *Tracker) History() []Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Sample, len(t.history))
	copy(out, t.history)
	return out
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
