package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain/session"
)

// CardsFromDeck numbers the cards of a deck so the engines can tell
// duplicates apart.
func CardsFromDeck(deck *deckfile.Deck) []session.Card {
	cards := make([]session.Card, len(deck.Cards))
	for i, c := range deck.Cards {
		cards[i] = session.Card{ID: strconv.Itoa(i + 1), Term: c.Term, Definition: c.Definition}
	}
	return cards
}

// StudyModel is a bubbletea model for one study session.
type StudyModel struct {
	title    string
	study    *session.StudySession
	keys     studyKeyMap
	help     help.Model
	notice   string
	passes   *[]session.Summary
	quitting bool
}

var _ tea.Model = (*StudyModel)(nil)

// NewStudyModel starts a study session over cards. opts.Recorder, if set,
// still receives every summary.
func NewStudyModel(title string, cards []session.Card, opts session.StudyOptions) (*StudyModel, error) {
	passes := &[]session.Summary{}
	next := opts.Recorder
	opts.Recorder = session.ProgressSinkFunc(func(s session.Summary) {
		*passes = append(*passes, s)
		if next != nil {
			next.Record(s)
		}
	})

	study, err := session.NewStudySession(cards, opts)
	if err != nil {
		return nil, err
	}
	return &StudyModel{
		title:  title,
		study:  study,
		keys:   defaultStudyKeys().withTracking(opts.TrackProgress),
		help:   help.New(),
		passes: passes,
	}, nil
}

// Summaries returns the summaries of completed tracked passes, oldest first.
func (m *StudyModel) Summaries() []session.Summary {
	return append([]session.Summary(nil), *m.passes...)
}

// State returns the current session state.
func (m *StudyModel) State() session.StudyState {
	return m.study.Snapshot()
}

// Init implements tea.Model.
func (m *StudyModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *StudyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *StudyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.study.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Flip):
		err = m.study.Flip()
	case key.Matches(msg, m.keys.Next):
		err = m.study.Next()
	case key.Matches(msg, m.keys.Prev):
		err = m.study.Prev()
	case key.Matches(msg, m.keys.Known):
		err = m.study.MarkKnown()
	case key.Matches(msg, m.keys.Retry):
		err = m.study.MarkRetry()
	case key.Matches(msg, m.keys.Restart):
		err = m.study.Restart()
	case key.Matches(msg, m.keys.Last):
		err = m.study.GoToLastCard()
	default:
		return m, nil
	}

	m.notice = ""
	if err != nil {
		m.notice = noticeFor(err)
	}
	return m, nil
}

// View implements tea.Model.
func (m *StudyModel) View() string {
	if m.quitting {
		return ""
	}
	state := m.study.Snapshot()

	var b strings.Builder
	b.WriteString(styleHeader.Render("flipcards: " + m.title))
	b.WriteString("\n\n")

	if state.Completed {
		b.WriteString(m.viewCompleted(state))
	} else {
		face := "term"
		if state.ShowDefinition != state.DefinitionFirst {
			face = "definition"
		}
		b.WriteString(styleSubtle.Render(fmt.Sprintf("Card %d of %d  (%s)", state.Index+1, state.Total, face)))
		b.WriteString("\n")
		b.WriteString(styleCard.Render(state.Visible))
		b.WriteString("\n")
		if state.TrackProgress {
			b.WriteString(fmt.Sprintf("%s %d   %s %d\n",
				styleCorrect.Render("known"), state.KnownCount,
				styleWrong.Render("again"), state.RetryCount))
		}
	}

	if m.notice != "" {
		b.WriteString("\n" + styleNotice.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *StudyModel) viewCompleted(state session.StudyState) string {
	var b strings.Builder
	b.WriteString(styleCorrect.Render("You've finished this set!"))
	b.WriteString("\n\n")
	if state.TrackProgress {
		marked := state.KnownCount + state.RetryCount
		fraction := 0.0
		if marked > 0 {
			fraction = float64(state.KnownCount) / float64(marked)
		}
		b.WriteString(fmt.Sprintf("%s  %d known, %d to study again\n",
			renderBar(fraction, 30), state.KnownCount, state.RetryCount))
	}
	b.WriteString(styleSubtle.Render("r: study again   b: back to last card   q: quit"))
	b.WriteString("\n")
	return b.String()
}

// noticeFor turns an engine refusal into a short hint.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, session.ErrNavigationLocked):
		return "Mark the card with y or n to move on."
	case errors.Is(err, session.ErrSessionCompleted):
		return "Set finished. Press r to go again."
	case errors.Is(err, session.ErrSessionNotComplete):
		return "Finish the board first."
	default:
		return err.Error()
	}
}
