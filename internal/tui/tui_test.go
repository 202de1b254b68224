package tui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var animals = []session.Card{
	{ID: "1", Term: "Dog", Definition: "Canine"},
	{ID: "2", Term: "Cat", Definition: "Feline"},
}

func press(m tea.Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

// queuedDeferrer runs deferred work only when flushed.
type queuedDeferrer struct {
	mu      sync.Mutex
	pending []func()
}

func (d *queuedDeferrer) AfterFunc(_ time.Duration, fn func()) func() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, fn)
	return func() bool { return false }
}

func (d *queuedDeferrer) flush() {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func TestCardsFromDeck(t *testing.T) {
	cards := CardsFromDeck(&deckfile.Deck{Cards: []domain.CardContent{
		{Term: "ser", Definition: "to be"},
		{Term: "ser", Definition: "to be"},
	}})

	require.Len(t, cards, 2)
	assert.Equal(t, "1", cards[0].ID)
	assert.Equal(t, "2", cards[1].ID)
	assert.Equal(t, "to be", cards[1].Definition)
}

func TestStudyModel_Browse(t *testing.T) {
	m, err := NewStudyModel("Animals", animals, session.StudyOptions{})
	require.NoError(t, err)
	assert.Contains(t, m.View(), "Dog")
	assert.Contains(t, m.View(), "Card 1 of 2")

	press(m, "space")
	assert.Contains(t, m.View(), "Canine")
	assert.Contains(t, m.View(), "(definition)")

	press(m, "left")
	assert.Equal(t, 1, m.State().Index, "previous wraps to the last card")

	press(m, "right")
	assert.True(t, m.State().Completed)
	assert.Contains(t, m.View(), "You've finished this set!")

	press(m, "y")
	assert.Zero(t, m.State().KnownCount, "marking keys are off without tracking")

	press(m, "r")
	assert.False(t, m.State().Completed)
	assert.Equal(t, 0, m.State().Index)
	assert.Empty(t, m.Summaries(), "untracked passes produce no summary")
}

func TestStudyModel_Tracked(t *testing.T) {
	var recorded []session.Summary
	m, err := NewStudyModel("Animals", animals, session.StudyOptions{
		DefinitionFirst: true,
		TrackProgress:   true,
		Recorder:        session.ProgressSinkFunc(func(s session.Summary) { recorded = append(recorded, s) }),
	})
	require.NoError(t, err)
	assert.Contains(t, m.View(), "Canine")

	press(m, "right")
	assert.Equal(t, 0, m.State().Index, "navigation keys are off while tracking")

	press(m, "b")
	assert.Contains(t, m.View(), "Mark the card with y or n to move on.")

	press(m, "y", "n")
	require.True(t, m.State().Completed)
	require.Len(t, m.Summaries(), 1)
	assert.Equal(t, 1, m.Summaries()[0].CardsCorrect)
	assert.Equal(t, 2, m.Summaries()[0].CardsStudied)
	assert.Equal(t, m.Summaries(), recorded)

	press(m, "b", "y")
	assert.Equal(t, 2, m.State().KnownCount)
	require.Len(t, m.Summaries(), 2)
	assert.Equal(t, 2, m.Summaries()[1].CardsCorrect)
}

func TestStudyModel_Quit(t *testing.T) {
	m, err := NewStudyModel("Animals", animals, session.StudyOptions{})
	require.NoError(t, err)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestNewStudyModel_NoCards(t *testing.T) {
	_, err := NewStudyModel("Empty", nil, session.StudyOptions{})
	assert.ErrorIs(t, err, session.ErrNoCards)
}

// pointAt moves the cursor to the item of card id in the given column.
func pointAt(t *testing.T, m *MatchModel, side session.Side, id string) {
	t.Helper()
	m.side = side
	for i, it := range m.column(m.State()) {
		if it.ID == id {
			m.cursor = i
			return
		}
	}
	t.Fatalf("no %s item %q on the board", side, id)
}

func TestMatchModel(t *testing.T) {
	deferrer := &queuedDeferrer{}
	m, err := NewMatchModel("Animals", animals, session.MatchOptions{Deferrer: deferrer, Delay: time.Second})
	require.NoError(t, err)
	assert.Contains(t, m.View(), "0/2 matched")

	pointAt(t, m, session.SideTerm, "1")
	assert.Nil(t, press(m, "space"))
	pointAt(t, m, session.SideDefinition, "2")
	require.NotNil(t, press(m, "space"), "a mismatch schedules a redraw")
	require.NotNil(t, m.State().Mismatch)

	deferrer.flush()
	m.Update(settledMsg{})
	assert.Nil(t, m.State().Mismatch)

	for _, id := range []string{"1", "2"} {
		pointAt(t, m, session.SideTerm, id)
		press(m, "space")
		pointAt(t, m, session.SideDefinition, id)
		require.NotNil(t, press(m, "space"))
	}
	deferrer.flush()
	m.Update(settledMsg{})

	assert.True(t, m.State().Complete)
	assert.Contains(t, m.View(), "You matched every pair.")

	press(m, "r")
	assert.False(t, m.State().Complete)
	assert.Len(t, m.State().Terms, 2)
	assert.Equal(t, session.SideTerm, m.side)
}

func TestMatchModel_RetryBeforeComplete(t *testing.T) {
	m, err := NewMatchModel("Animals", animals, session.MatchOptions{Deferrer: &queuedDeferrer{}})
	require.NoError(t, err)

	press(m, "r")
	assert.Contains(t, m.View(), "Finish the board first.")
}

func TestMatchModel_CursorWraps(t *testing.T) {
	m, err := NewMatchModel("Animals", animals, session.MatchOptions{Deferrer: &queuedDeferrer{}})
	require.NoError(t, err)

	press(m, "k")
	assert.Equal(t, 1, m.cursor)
	press(m, "j")
	assert.Equal(t, 0, m.cursor)
	press(m, "tab")
	assert.Equal(t, session.SideDefinition, m.side)
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, renderBar(0, 4), renderBar(-1, 4))
	assert.Equal(t, renderBar(1, 4), renderBar(2, 4))
}
