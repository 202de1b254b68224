package session

import (
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultMatchDelay is how long a matched pair or a mismatch stays on screen.
const DefaultMatchDelay = 500 * time.Millisecond

// Side names one of the two columns of a match board.
type Side string

const (
	SideTerm       Side = "term"
	SideDefinition Side = "definition"
)

// Outcome describes what a selection did.
type Outcome string

const (
	OutcomeSelected   Outcome = "selected"
	OutcomeDeselected Outcome = "deselected"
	OutcomeMatched    Outcome = "matched"
	OutcomeMismatched Outcome = "mismatched"
	// OutcomeIgnored is returned for items that are animating.
	OutcomeIgnored Outcome = "ignored"
)

// ItemState is the display state of a visible item.
type ItemState string

const (
	ItemIdle     ItemState = "idle"
	ItemSelected ItemState = "selected"
	ItemMatching ItemState = "matching"
	ItemMismatch ItemState = "mismatch"
)

// Item is one visible term or definition. ID is the ID of the card it came from.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Pair is a term item and a definition item selected together.
type Pair struct {
	Term       Item `json:"term"`
	Definition Item `json:"definition"`
}

// MatchOptions configures a MatchSession.
type MatchOptions struct {
	// Delay defaults to DefaultMatchDelay.
	Delay time.Duration
	// Deferrer defaults to WallClock.
	Deferrer Deferrer
	// Rand defaults to the global source.
	Rand *rand.Rand
}

// BoardItem is an Item together with its display state.
type BoardItem struct {
	Item
	State ItemState `json:"state"`
}

// MatchState is a point-in-time view of a MatchSession.
type MatchState struct {
	Terms       []BoardItem `json:"terms"`
	Definitions []BoardItem `json:"definitions"`
	Matched     int         `json:"matched"`
	Total       int         `json:"total"`
	Complete    bool        `json:"complete"`
	Mismatch    *Pair       `json:"mismatch,omitempty"`
}

type pendingMatch struct {
	pair   Pair
	cardID string
}

// MatchSession is a matching game over a fixed list of cards.
// It is safe for concurrent use; deferred feedback runs on timer goroutines.
type MatchSession struct {
	mu       sync.Mutex
	cards    []Card
	delay    time.Duration
	deferrer Deferrer
	rng      *rand.Rand

	terms       []Item
	definitions []Item

	selectedTerm       string
	selectedDefinition string

	// matched holds card IDs; reserved holds cards claimed by pending matches.
	matched  map[string]struct{}
	reserved map[string]struct{}
	pending  map[string]pendingMatch // keyed by term item ID

	mismatch    *Pair
	mismatchGen uint64

	// epoch invalidates deferred actions scheduled before a retry or close.
	epoch    uint64
	timerSeq uint64
	timers   map[uint64]func() bool
	closed   bool
}

// NewMatchSession deals a fresh board from cards.
func NewMatchSession(cards []Card, opts MatchOptions) (*MatchSession, error) {
	prepared, err := prepareCards(cards)
	if err != nil {
		return nil, err
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultMatchDelay
	}
	if opts.Deferrer == nil {
		opts.Deferrer = WallClock
	}

	m := &MatchSession{
		cards:    prepared,
		delay:    opts.Delay,
		deferrer: opts.Deferrer,
		rng:      opts.Rand,
		timers:   make(map[uint64]func() bool),
	}
	m.dealLocked()
	return m, nil
}

// SelectTerm selects, deselects or pairs the term item with the given ID.
func (m *MatchSession) SelectTerm(id string) (Outcome, error) {
	return m.selectItem(SideTerm, id)
}

// SelectDefinition selects, deselects or pairs the definition item with the given ID.
func (m *MatchSession) SelectDefinition(id string) (Outcome, error) {
	return m.selectItem(SideDefinition, id)
}

// Select dispatches to SelectTerm or SelectDefinition.
func (m *MatchSession) Select(side Side, id string) (Outcome, error) {
	switch side {
	case SideTerm, SideDefinition:
		return m.selectItem(side, id)
	}
	return "", ErrUnknownItem
}

func (m *MatchSession) selectItem(side Side, id string) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", ErrSessionClosed
	}
	if m.completeLocked() {
		return "", ErrSessionCompleted
	}

	own, other := &m.selectedTerm, &m.selectedDefinition
	column := m.terms
	if side == SideDefinition {
		own, other = other, own
		column = m.definitions
	}
	if _, ok := findItem(column, id); !ok {
		return "", ErrUnknownItem
	}
	if m.busyLocked(side, id) {
		return OutcomeIgnored, nil
	}

	switch {
	case *own == id:
		*own = ""
		return OutcomeDeselected, nil
	case *other == "":
		*own = id
		return OutcomeSelected, nil
	}

	*own = id
	term, _ := findItem(m.terms, m.selectedTerm)
	definition, _ := findItem(m.definitions, m.selectedDefinition)
	m.selectedTerm, m.selectedDefinition = "", ""
	return m.checkLocked(Pair{Term: term, Definition: definition}), nil
}

// checkLocked decides a completed selection and schedules its feedback.
func (m *MatchSession) checkLocked(p Pair) Outcome {
	if cardID, ok := m.claimLocked(p); ok {
		m.reserved[cardID] = struct{}{}
		m.pending[p.Term.ID] = pendingMatch{pair: p, cardID: cardID}
		termID := p.Term.ID
		m.deferLocked(func() { m.settleLocked(termID) })
		return OutcomeMatched
	}

	m.mismatchGen++
	gen := m.mismatchGen
	flash := p
	m.mismatch = &flash
	m.deferLocked(func() {
		if m.mismatchGen == gen {
			m.mismatch = nil
		}
	})
	return OutcomeMismatched
}

// claimLocked finds an unclaimed card whose texts equal the pair's. The
// card both items came from is preferred. Items are always removed by ID, so
// duplicate texts never remove more than the two selected items.
func (m *MatchSession) claimLocked(p Pair) (string, bool) {
	for _, preferred := range []string{p.Term.ID, p.Definition.ID} {
		if c, ok := m.cardLocked(preferred); ok && m.availableLocked(c.ID) &&
			c.Term == p.Term.Text && c.Definition == p.Definition.Text {
			return c.ID, true
		}
	}
	for _, c := range m.cards {
		if m.availableLocked(c.ID) && c.Term == p.Term.Text && c.Definition == p.Definition.Text {
			return c.ID, true
		}
	}
	return "", false
}

// settleLocked removes a pending pair from the board. Repeated calls are no-ops.
func (m *MatchSession) settleLocked(termID string) {
	pm, ok := m.pending[termID]
	if !ok {
		return
	}
	delete(m.pending, termID)
	delete(m.reserved, pm.cardID)
	m.matched[pm.cardID] = struct{}{}
	m.terms = removeItem(m.terms, pm.pair.Term.ID)
	m.definitions = removeItem(m.definitions, pm.pair.Definition.ID)
}

// deferLocked schedules fn to run under the lock after the feedback delay,
// unless the board is retried or closed first.
func (m *MatchSession) deferLocked(fn func()) {
	epoch := m.epoch
	m.timerSeq++
	id := m.timerSeq

	stop := m.deferrer.AfterFunc(m.delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.timers, id)
		if m.closed || m.epoch != epoch {
			return
		}
		fn()
	})
	m.timers[id] = stop
}

// IsComplete reports whether every card has been matched.
func (m *MatchSession) IsComplete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completeLocked()
}

// MatchedTerms returns the term texts of matched cards in card order.
func (m *MatchSession) MatchedTerms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	terms := make([]string, 0, len(m.matched))
	for _, c := range m.cards {
		if _, ok := m.matched[c.ID]; ok {
			terms = append(terms, c.Term)
		}
	}
	return terms
}

// Terms returns the visible term items in display order.
func (m *MatchSession) Terms() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.terms...)
}

// Definitions returns the visible definition items in display order.
func (m *MatchSession) Definitions() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.definitions...)
}

// Mismatch returns the pair currently flagged as wrong, if any.
func (m *MatchSession) Mismatch() (Pair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mismatch == nil {
		return Pair{}, false
	}
	return *m.mismatch, true
}

// Snapshot returns the board for rendering.
func (m *MatchSession) Snapshot() MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := MatchState{
		Terms:       make([]BoardItem, len(m.terms)),
		Definitions: make([]BoardItem, len(m.definitions)),
		Matched:     len(m.matched),
		Total:       len(m.cards),
		Complete:    m.completeLocked(),
	}
	for i, it := range m.terms {
		state.Terms[i] = BoardItem{Item: it, State: m.itemStateLocked(SideTerm, it.ID)}
	}
	for i, it := range m.definitions {
		state.Definitions[i] = BoardItem{Item: it, State: m.itemStateLocked(SideDefinition, it.ID)}
	}
	if m.mismatch != nil {
		flash := *m.mismatch
		state.Mismatch = &flash
	}
	return state
}

// Retry deals a new board once the current one is complete.
func (m *MatchSession) Retry() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSessionClosed
	}
	if !m.completeLocked() {
		return ErrSessionNotComplete
	}
	m.dealLocked()
	return nil
}

// Close cancels pending feedback. Later operations return ErrSessionClosed.
func (m *MatchSession) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.epoch++
	m.stopTimersLocked()
}

func (m *MatchSession) dealLocked() {
	m.epoch++
	m.stopTimersLocked()

	terms := make([]Item, len(m.cards))
	definitions := make([]Item, len(m.cards))
	for i, c := range m.cards {
		terms[i] = Item{ID: c.ID, Text: c.Term}
		definitions[i] = Item{ID: c.ID, Text: c.Definition}
	}
	m.terms = Shuffle(terms, m.rng)
	m.definitions = Shuffle(definitions, m.rng)

	m.selectedTerm, m.selectedDefinition = "", ""
	m.matched = make(map[string]struct{}, len(m.cards))
	m.reserved = make(map[string]struct{})
	m.pending = make(map[string]pendingMatch)
	m.mismatch = nil
}

func (m *MatchSession) stopTimersLocked() {
	for id, stop := range m.timers {
		stop()
		delete(m.timers, id)
	}
}

func (m *MatchSession) completeLocked() bool {
	return len(m.matched) == len(m.cards)
}

func (m *MatchSession) availableLocked(cardID string) bool {
	_, done := m.matched[cardID]
	_, claimed := m.reserved[cardID]
	return !done && !claimed
}

func (m *MatchSession) cardLocked(id string) (Card, bool) {
	for _, c := range m.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// busyLocked reports whether an item is part of a pending match or the
// current mismatch flash.
func (m *MatchSession) busyLocked(side Side, id string) bool {
	state := m.itemStateLocked(side, id)
	return state == ItemMatching || state == ItemMismatch
}

func (m *MatchSession) itemStateLocked(side Side, id string) ItemState {
	for _, pm := range m.pending {
		if (side == SideTerm && pm.pair.Term.ID == id) ||
			(side == SideDefinition && pm.pair.Definition.ID == id) {
			return ItemMatching
		}
	}
	if m.mismatch != nil {
		if (side == SideTerm && m.mismatch.Term.ID == id) ||
			(side == SideDefinition && m.mismatch.Definition.ID == id) {
			return ItemMismatch
		}
	}
	if (side == SideTerm && m.selectedTerm == id) ||
		(side == SideDefinition && m.selectedDefinition == id) {
		return ItemSelected
	}
	return ItemIdle
}

func findItem(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func removeItem(items []Item, id string) []Item {
	for i, it := range items {
		if it.ID == id {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}
