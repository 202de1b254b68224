package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/flipdeck/internal/domain/session"
)

// settleSlack is added to the feedback delay before redrawing so the
// engine's timer has fired.
const settleSlack = 20 * time.Millisecond

// settledMsg asks for a redraw once match feedback has expired.
type settledMsg struct{}

// MatchModel is a bubbletea model for one match session.
type MatchModel struct {
	title    string
	match    *session.MatchSession
	delay    time.Duration
	keys     matchKeyMap
	help     help.Model
	side     session.Side
	cursor   int
	notice   string
	quitting bool
}

var _ tea.Model = (*MatchModel)(nil)

// NewMatchModel deals a match board from cards.
func NewMatchModel(title string, cards []session.Card, opts session.MatchOptions) (*MatchModel, error) {
	if opts.Delay <= 0 {
		opts.Delay = session.DefaultMatchDelay
	}
	match, err := session.NewMatchSession(cards, opts)
	if err != nil {
		return nil, err
	}
	return &MatchModel{
		title: title,
		match: match,
		delay: opts.Delay,
		keys:  defaultMatchKeys(),
		help:  help.New(),
		side:  session.SideTerm,
	}, nil
}

// State returns the current board.
func (m *MatchModel) State() session.MatchState {
	return m.match.Snapshot()
}

// Init implements tea.Model.
func (m *MatchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *MatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case settledMsg:
		m.clampCursor()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *MatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.match.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Switch):
		if m.side == session.SideTerm {
			m.side = session.SideDefinition
		} else {
			m.side = session.SideTerm
		}
		m.clampCursor()
	case key.Matches(msg, m.keys.Select):
		return m, m.selectCurrent()
	case key.Matches(msg, m.keys.Retry):
		if err := m.match.Retry(); err != nil {
			m.notice = noticeFor(err)
			break
		}
		m.notice = ""
		m.side, m.cursor = session.SideTerm, 0
	}
	return m, nil
}

func (m *MatchModel) selectCurrent() tea.Cmd {
	items := m.column(m.match.Snapshot())
	if len(items) == 0 {
		return nil
	}

	m.notice = ""
	outcome, err := m.match.Select(m.side, items[m.cursor].ID)
	if err != nil {
		m.notice = noticeFor(err)
		return nil
	}
	switch outcome {
	case session.OutcomeMatched, session.OutcomeMismatched:
		return tea.Tick(m.delay+settleSlack, func(time.Time) tea.Msg { return settledMsg{} })
	}
	return nil
}

func (m *MatchModel) column(state session.MatchState) []session.BoardItem {
	if m.side == session.SideDefinition {
		return state.Definitions
	}
	return state.Terms
}

func (m *MatchModel) clampCursor() {
	n := len(m.column(m.match.Snapshot()))
	switch {
	case n == 0:
		m.cursor = 0
	case m.cursor < 0:
		m.cursor = n - 1
	case m.cursor >= n:
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m *MatchModel) View() string {
	if m.quitting {
		return ""
	}
	state := m.match.Snapshot()

	var b strings.Builder
	b.WriteString(styleHeader.Render("flipcards match: " + m.title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d/%d matched\n\n",
		renderBar(float64(state.Matched)/float64(state.Total), 30), state.Matched, state.Total))

	if state.Complete {
		b.WriteString(styleCorrect.Render("Congratulations! You matched every pair."))
		b.WriteString("\n")
		b.WriteString(styleSubtle.Render("r: play again   q: quit"))
		b.WriteString("\n")
	} else {
		terms := m.renderColumn("Terms", state.Terms, session.SideTerm)
		definitions := m.renderColumn("Definitions", state.Definitions, session.SideDefinition)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, terms, "    ", definitions))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + styleNotice.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *MatchModel) renderColumn(heading string, items []session.BoardItem, side session.Side) string {
	lines := []string{styleHeader.Render(heading)}
	for i, it := range items {
		cursor := "  "
		if side == m.side && i == m.cursor {
			cursor = styleCursor.Render("> ")
		}

		text := it.Text
		switch it.State {
		case session.ItemSelected:
			text = styleSelected.Render(text)
		case session.ItemMatching:
			text = styleMatching.Render(text)
		case session.ItemMismatch:
			text = styleMismatch.Render(text)
		}
		lines = append(lines, cursor+text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
