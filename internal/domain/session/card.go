package session

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Card is one term/definition pair. ID identifies the card within a session;
// cards with an empty ID are given their position as ID.
type Card struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Summary is the outcome of one completed, progress-tracked study pass.
type Summary struct {
	CardsStudied         int       `json:"cards_studied"`
	CardsCorrect         int       `json:"cards_correct"`
	CompletionPercentage float64   `json:"completion_percentage"`
	CompletedAt          time.Time `json:"completed_at"`
}

// ProgressSink receives summaries of completed study passes. Implementations
// must not block; failures are theirs to log.
type ProgressSink interface {
	Record(summary Summary)
}

// ProgressSinkFunc adapts a plain function to ProgressSink.
type ProgressSinkFunc func(summary Summary)

// Record calls f(summary).
func (f ProgressSinkFunc) Record(summary Summary) {
	f(summary)
}

// prepareCards copies cards, fills missing IDs and rejects duplicates.
func prepareCards(cards []Card) ([]Card, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	out := make([]Card, len(cards))
	seen := make(map[string]struct{}, len(cards))
	for i, c := range cards {
		if c.ID == "" {
			c.ID = strconv.Itoa(i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCardID, c.ID)
		}
		seen[c.ID] = struct{}{}
		out[i] = c
	}
	return out, nil
}

// completionPercentage returns studied/total as a percentage rounded to two
// decimal places.
func completionPercentage(studied, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(studied)/float64(total)*10000) / 100
}
