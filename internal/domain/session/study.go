package session

import (
	"sync"
	"time"
)

// TallyPolicy decides what Restart does with known/retry tallies.
type TallyPolicy int

const (
	// TallyCarry keeps the tallies of earlier passes. KnownCount and
	// RetryCount then report cumulative totals while summaries still
	// describe the pass that just completed.
	TallyCarry TallyPolicy = iota
	// TallyReset clears the tallies on restart.
	TallyReset
)

// StudyOptions configures a StudySession. The zero value shows terms first,
// does not track progress and keeps tallies across restarts.
type StudyOptions struct {
	// DefinitionFirst shows the definition as the front face.
	DefinitionFirst bool
	// TrackProgress replaces navigation with known/retry marking.
	TrackProgress bool
	TallyPolicy   TallyPolicy
	// Recorder receives the summary of each completed tracked pass.
	Recorder ProgressSink
	// Now defaults to time.Now.
	Now func() time.Time
}

type mark int8

const (
	unmarked mark = iota
	markedKnown
	markedRetry
)

// StudyState is a point-in-time view of a StudySession.
type StudyState struct {
	CardID          string `json:"card_id"`
	Index           int    `json:"index"`
	Total           int    `json:"total"`
	Front           string `json:"front"`
	Back            string `json:"back"`
	ShowDefinition  bool   `json:"show_definition"`
	Visible         string `json:"visible"`
	DefinitionFirst bool   `json:"definition_first"`
	TrackProgress   bool   `json:"track_progress"`
	Completed       bool   `json:"completed"`
	KnownCount      int    `json:"known_count"`
	RetryCount      int    `json:"retry_count"`
}

// StudySession is a linear pass over a fixed list of cards.
// It is safe for concurrent use.
type StudySession struct {
	mu    sync.Mutex
	cards []Card
	opts  StudyOptions

	index          int
	showDefinition bool
	completed      bool
	closed         bool

	// marks holds the current pass; carried* hold earlier passes under TallyCarry.
	marks        []mark
	carriedKnown int
	carriedRetry int
}

// NewStudySession starts a study pass at the first card.
func NewStudySession(cards []Card, opts StudyOptions) (*StudySession, error) {
	prepared, err := prepareCards(cards)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &StudySession{
		cards: prepared,
		opts:  opts,
		marks: make([]mark, len(prepared)),
	}, nil
}

// Flip toggles which face of the current card is shown.
func (s *StudySession) Flip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.showDefinition = !s.showDefinition
	return nil
}

// Next advances to the following card, completing the session on the last one.
func (s *StudySession) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNavigableLocked(); err != nil {
		return err
	}
	// Untracked passes never produce a summary.
	s.advanceLocked()
	return nil
}

// Prev moves to the previous card, wrapping from the first card to the last.
func (s *StudySession) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNavigableLocked(); err != nil {
		return err
	}
	n := len(s.cards)
	s.index = (s.index - 1 + n) % n
	s.showDefinition = false
	return nil
}

// MarkKnown records the current card as known and advances.
func (s *StudySession) MarkKnown() error {
	return s.mark(markedKnown)
}

// MarkRetry records the current card for another look and advances.
func (s *StudySession) MarkRetry() error {
	return s.mark(markedRetry)
}

func (s *StudySession) mark(m mark) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if !s.opts.TrackProgress {
		s.mu.Unlock()
		return ErrTrackingDisabled
	}
	if s.completed {
		s.mu.Unlock()
		return ErrSessionCompleted
	}

	s.marks[s.index] = m
	summary, finished := s.advanceLocked()
	s.mu.Unlock()

	if finished && s.opts.Recorder != nil {
		s.opts.Recorder.Record(summary)
	}
	return nil
}

// Restart returns to the first card. Tallies follow the TallyPolicy.
func (s *StudySession) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	if s.opts.TallyPolicy == TallyCarry {
		known, retry := s.passCountsLocked()
		s.carriedKnown += known
		s.carriedRetry += retry
	} else {
		s.carriedKnown, s.carriedRetry = 0, 0
	}
	s.marks = make([]mark, len(s.cards))

	s.index = 0
	s.showDefinition = false
	s.completed = false
	return nil
}

// GoToLastCard jumps back to the last card and clears completion. While
// tracking progress it is only valid after completion, and the last card's
// mark is withdrawn so it can be scored again.
func (s *StudySession) GoToLastCard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	last := len(s.cards) - 1
	if s.opts.TrackProgress {
		if !s.completed {
			return ErrNavigationLocked
		}
		s.marks[last] = unmarked
	}

	s.index = last
	s.completed = false
	s.showDefinition = false
	return nil
}

// Completed reports whether the pass has moved past the last card.
func (s *StudySession) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// KnownCount returns the number of cards marked known.
func (s *StudySession) KnownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	known, _ := s.passCountsLocked()
	return s.carriedKnown + known
}

// RetryCount returns the number of cards marked for retry.
func (s *StudySession) RetryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, retry := s.passCountsLocked()
	return s.carriedRetry + retry
}

// Snapshot returns the current state for rendering.
func (s *StudySession) Snapshot() StudyState {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.cards[s.index]
	front, back := card.Term, card.Definition
	if s.opts.DefinitionFirst {
		front, back = back, front
	}
	visible := front
	if s.showDefinition {
		visible = back
	}
	known, retry := s.passCountsLocked()

	return StudyState{
		CardID:          card.ID,
		Index:           s.index,
		Total:           len(s.cards),
		Front:           front,
		Back:            back,
		ShowDefinition:  s.showDefinition,
		Visible:         visible,
		DefinitionFirst: s.opts.DefinitionFirst,
		TrackProgress:   s.opts.TrackProgress,
		Completed:       s.completed,
		KnownCount:      s.carriedKnown + known,
		RetryCount:      s.carriedRetry + retry,
	}
}

// Close discards the session. Later operations return ErrSessionClosed.
func (s *StudySession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *StudySession) checkNavigableLocked() error {
	switch {
	case s.closed:
		return ErrSessionClosed
	case s.completed:
		return ErrSessionCompleted
	case s.opts.TrackProgress:
		return ErrNavigationLocked
	}
	return nil
}

// advanceLocked moves forward one card. It reports a summary when the move
// completes a tracked pass; the caller delivers it after unlocking.
func (s *StudySession) advanceLocked() (Summary, bool) {
	if s.index < len(s.cards)-1 {
		s.index++
		s.showDefinition = false
		return Summary{}, false
	}

	s.completed = true
	if !s.opts.TrackProgress {
		return Summary{}, false
	}

	known, retry := s.passCountsLocked()
	return Summary{
		CardsStudied:         known + retry,
		CardsCorrect:         known,
		CompletionPercentage: completionPercentage(known+retry, len(s.cards)),
		CompletedAt:          s.opts.Now().UTC(),
	}, true
}

func (s *StudySession) passCountsLocked() (known, retry int) {
	for _, m := range s.marks {
		switch m {
		case markedKnown:
			known++
		case markedRetry:
			retry++
		}
	}
	return known, retry
}
