package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleHeader   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCorrect  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleWrong    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleNotice   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleSelected = lipgloss.NewStyle().Background(lipgloss.Color("22")).Foreground(lipgloss.Color("0"))
	styleMatching = lipgloss.NewStyle().Background(lipgloss.Color("10")).Foreground(lipgloss.Color("0"))
	styleMismatch = lipgloss.NewStyle().Background(lipgloss.Color("9")).Foreground(lipgloss.Color("0"))
	styleBarGreen = lipgloss.NewStyle().Background(lipgloss.Color("10")).SetString(" ")
	styleBarRed   = lipgloss.NewStyle().Background(lipgloss.Color("9")).SetString(" ")

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 4).
			Width(48).
			Align(lipgloss.Center)
)

// renderBar draws fraction (0..1) of width cells green and the rest red.
func renderBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	green := int(fraction * float64(width))
	return strings.Repeat(styleBarGreen.String(), green) +
		strings.Repeat(styleBarRed.String(), width-green)
}
