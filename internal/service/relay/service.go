package relay

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mizunoha/kokoro-relay/internal/analysis/domains"
	"github.com/mizunoha/kokoro-relay/internal/analysis/safety"
	"github.com/mizunoha/kokoro-relay/internal/analysis/sentiment"
	"github.com/mizunoha/kokoro-relay/internal/lexicon"
)

// historyCapacity bounds the in-memory score history ring.
const historyCapacity = 500

// Completer generates the empathetic reply text from the upstream model.
type Completer interface {
	Generate(ctx context.Context, userText string, tags []lexicon.Tag, score int) (string, error)
}

// Synthesizer converts reply text to encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Reply is the assembled result for one message.
type Reply struct {
	Text   string
	Audio  []byte
	Danger bool
	Score  int
	Tags   []lexicon.Tag
}

// Service sequences the per-message pipeline: score, tag, danger check,
// then either the fixed safety script or the completion gateway, and
// finally speech synthesis.
type Service struct {
	lex         *lexicon.Lexicon
	tracker     *sentiment.Tracker
	tagger      *domains.Tagger
	detector    *safety.Detector
	responder   *safety.Responder
	completer   Completer
	synthesizer Synthesizer
	timeout     time.Duration
}

// NewService wires the analysis components and the two gateways.
func NewService(lex *lexicon.Lexicon, completer Completer, synthesizer Synthesizer, timeout time.Duration) *Service {
	return &Service{
		lex:         lex,
		tracker:     sentiment.NewTracker(historyCapacity),
		tagger:      domains.NewTagger(lex),
		detector:    safety.NewDetector(lex.Danger),
		responder:   safety.NewResponder(),
		completer:   completer,
		synthesizer: synthesizer,
		timeout:     timeout,
	}
}

// Handle runs the full pipeline for one user message. The score update
// stands even when a later gateway call fails; gateway errors surface to
// the handler as-is and are mapped to a generic server error there.
func (s *Service) Handle(ctx context.Context, message string) (Reply, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	score := s.tracker.Update(message, s.lex.Negative, s.lex.Positive)
	tags := s.tagger.Detect(message)
	danger := s.detector.Dangerous(message)

	var text string
	if danger {
		// Crisis branch: never call the completion gateway.
		log.Printf("[relay] danger keyword detected, using safety script")
		text = s.responder.Message()
	} else {
		generated, err := s.completer.Generate(ctx, message, tags, score)
		if err != nil {
			return Reply{}, fmt.Errorf("completion gateway: %w", err)
		}
		text = generated
		if score < 50 {
			text += "\n\n" + s.responder.BreathingGuide()
		}
	}

	audio, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return Reply{}, fmt.Errorf("speech gateway: %w", err)
	}

	return Reply{
		Text:   text,
		Audio:  audio,
		Danger: danger,
		Score:  score,
		Tags:   tags,
	}, nil
}

// History exposes the recorded score samples for the history endpoint.
func (s *Service) History() []sentiment.Sample {
	return s.tracker.History()
}

// Score returns the current sentiment score.
func (s *Service) Score() int {
	return s.tracker.Score()
}
