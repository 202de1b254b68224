// Package sessions keeps the live study and match sessions of signed-in
// users. A session is created when a user opens a set for study or matching
// and is discarded when they leave it or after it sits idle too long.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/config"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
)

// Kind distinguishes study sessions from match sessions.
type Kind string

const (
	KindStudy Kind = "study"
	KindMatch Kind = "match"
)

// Manager errors
var (
	// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrWrongKind is returned when a study action targets a match session
	// or the reverse.
	ErrWrongKind = fmt.Errorf("%w: wrong session kind", session.ErrPrecondition)
)

// CardSource loads the cards of a set the user may view.
type CardSource interface {
	GetStudyCards(ctx context.Context, userID, setID uuid.UUID) (*domain.Set, []session.Card, error)
}

// SinkFactory provides the progress sink of a study session.
type SinkFactory interface {
	SinkFor(userID, setID uuid.UUID) session.ProgressSink
}

// StudyParams are the per-session study choices.
type StudyParams struct {
	DefinitionFirst bool
	TrackProgress   bool
}

// Info describes a live session.
type Info struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	SetID     uuid.UUID `json:"set_id"`
	SetTitle  string    `json:"set_title"`
	CreatedAt time.Time `json:"created_at"`
}

type live struct {
	info     Info
	userID   uuid.UUID
	lastUsed time.Time
	study    *session.StudySession
	match    *session.MatchSession
}

func (l *live) close() {
	if l.study != nil {
		l.study.Close()
	}
	if l.match != nil {
		l.match.Close()
	}
}

// Manager is a per-user registry of live sessions.
type Manager struct {
	cards  CardSource
	sinks  SinkFactory
	cfg    config.SessionConfig
	now    func() time.Time
	logger *slog.Logger

	// deferrer is nil outside tests; match sessions then use the wall clock.
	deferrer session.Deferrer

	mu       sync.Mutex
	sessions map[uuid.UUID]*live

	scheduler *gocron.Scheduler
}

// NewManager creates a Manager. Call Start to begin reaping idle sessions.
func NewManager(cards CardSource, sinks SinkFactory, cfg config.SessionConfig, logger *slog.Logger) *Manager {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if sinks == nil {
		panic("sinks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPerUser <= 0 {
		cfg.MaxPerUser = 1
	}
	return &Manager{
		cards:    cards,
		sinks:    sinks,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger.With("component", "session_manager"),
		sessions: make(map[uuid.UUID]*live),
	}
}

// StartStudy opens a study session on a set.
func (m *Manager) StartStudy(ctx context.Context, userID, setID uuid.UUID, params StudyParams) (Info, session.StudyState, error) {
	set, cards, err := m.cards.GetStudyCards(ctx, userID, setID)
	if err != nil {
		return Info{}, session.StudyState{}, err
	}

	opts := session.StudyOptions{
		DefinitionFirst: params.DefinitionFirst,
		TrackProgress:   params.TrackProgress,
	}
	if m.cfg.ResetTalliesOnRestart {
		opts.TallyPolicy = session.TallyReset
	}
	if params.TrackProgress {
		opts.Recorder = m.sinks.SinkFor(userID, setID)
	}

	study, err := session.NewStudySession(cards, opts)
	if err != nil {
		return Info{}, session.StudyState{}, err
	}

	info := m.register(ctx, userID, set, &live{study: study})
	return info, study.Snapshot(), nil
}

// StartMatch opens a match session on a set.
func (m *Manager) StartMatch(ctx context.Context, userID, setID uuid.UUID) (Info, session.MatchState, error) {
	set, cards, err := m.cards.GetStudyCards(ctx, userID, setID)
	if err != nil {
		return Info{}, session.MatchState{}, err
	}

	match, err := session.NewMatchSession(cards, session.MatchOptions{
		Delay:    m.cfg.MatchDelay,
		Deferrer: m.deferrer,
	})
	if err != nil {
		return Info{}, session.MatchState{}, err
	}

	info := m.register(ctx, userID, set, &live{match: match})
	return info, match.Snapshot(), nil
}

// register adds a session carrying its engine, evicting the user's least
// recently used session when they are at the limit.
func (m *Manager) register(ctx context.Context, userID uuid.UUID, set *domain.Set, l *live) Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	owned := m.userSessionsLocked(userID)
	for len(owned) >= m.cfg.MaxPerUser {
		oldest := owned[0]
		m.removeLocked(oldest.info.ID)
		owned = owned[1:]
		logger.FromContextOrDefault(ctx, m.logger).Info("evicted least recently used session",
			"session_id", oldest.info.ID,
			"user_id", userID)
	}

	kind := KindStudy
	if l.match != nil {
		kind = KindMatch
	}
	now := m.now()
	l.info = Info{
		ID:        uuid.New(),
		Kind:      kind,
		SetID:     set.ID,
		SetTitle:  set.Title,
		CreatedAt: now.UTC(),
	}
	l.userID = userID
	l.lastUsed = now
	m.sessions[l.info.ID] = l

	logger.FromContextOrDefault(ctx, m.logger).Info("session started",
		"session_id", l.info.ID,
		"kind", kind,
		"set_id", set.ID,
		"user_id", userID)
	return l.info
}

// Info returns the description of a live session and marks it used.
func (m *Manager) Info(userID, sessionID uuid.UUID) (Info, error) {
	l, err := m.lookup(userID, sessionID)
	if err != nil {
		return Info{}, err
	}
	return l.info, nil
}

// Study returns a live study session and marks it used.
func (m *Manager) Study(userID, sessionID uuid.UUID) (*session.StudySession, error) {
	l, err := m.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if l.study == nil {
		return nil, ErrWrongKind
	}
	return l.study, nil
}

// Match returns a live match session and marks it used.
func (m *Manager) Match(userID, sessionID uuid.UUID) (*session.MatchSession, error) {
	l, err := m.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if l.match == nil {
		return nil, ErrWrongKind
	}
	return l.match, nil
}

func (m *Manager) lookup(userID, sessionID uuid.UUID) (*live, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.sessions[sessionID]
	if !ok || l.userID != userID {
		return nil, ErrSessionNotFound
	}
	l.lastUsed = m.now()
	return l, nil
}

// Close discards a session and cancels its pending timers.
func (m *Manager) Close(userID, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.sessions[sessionID]
	if !ok || l.userID != userID {
		return ErrSessionNotFound
	}
	m.removeLocked(sessionID)
	m.logger.Debug("session closed", "session_id", sessionID, "user_id", userID)
	return nil
}

// Reap closes every session idle for longer than the configured TTL and
// returns how many it closed.
func (m *Manager) Reap() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.cfg.IdleTTL)
	reaped := 0
	for id, l := range m.sessions {
		if l.lastUsed.Before(cutoff) {
			m.removeLocked(id)
			reaped++
		}
	}
	if reaped > 0 {
		m.logger.Info("reaped idle sessions", "count", reaped, "remaining", len(m.sessions))
	}
	return reaped
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Start schedules the idle reaper.
func (m *Manager) Start() error {
	interval := m.cfg.ReapInterval
	if interval <= 0 {
		interval = time.Minute
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(interval).WaitForSchedule().Do(m.Reap); err != nil {
		return fmt.Errorf("failed to schedule session reaper: %w", err)
	}
	s.StartAsync()

	m.mu.Lock()
	m.scheduler = s
	m.mu.Unlock()

	m.logger.Info("session reaper started", "interval", interval, "idle_ttl", m.cfg.IdleTTL)
	return nil
}

// Stop halts the reaper and closes every live session.
func (m *Manager) Stop() {
	m.mu.Lock()
	s := m.scheduler
	m.scheduler = nil
	for id := range m.sessions {
		m.removeLocked(id)
	}
	m.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}

func (m *Manager) removeLocked(id uuid.UUID) {
	if l, ok := m.sessions[id]; ok {
		l.close()
		delete(m.sessions, id)
	}
}

// userSessionsLocked returns the user's sessions, least recently used first.
func (m *Manager) userSessionsLocked(userID uuid.UUID) []*live {
	var owned []*live
	for _, l := range m.sessions {
		if l.userID == userID {
			owned = append(owned, l)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].lastUsed.Before(owned[j].lastUsed)
	})
	return owned
}
