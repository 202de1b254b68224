// Command flipcards studies a deck file in the terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/tui"
	"github.com/spf13/cobra"
)

// runProgram runs a bubbletea model to completion. Tests replace it.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flipcards",
		Short:         "Study flashcard decks in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStudyCmd(), newMatchCmd())
	return root
}

func newStudyCmd() *cobra.Command {
	var definitionFirst, track, resetTallies bool

	cmd := &cobra.Command{
		Use:   "study <deck>",
		Short: "Flip through a deck card by card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := deckfile.Load(args[0])
			if err != nil {
				return err
			}

			policy := session.TallyCarry
			if resetTallies {
				policy = session.TallyReset
			}
			model, err := tui.NewStudyModel(deck.Title, tui.CardsFromDeck(deck), session.StudyOptions{
				DefinitionFirst: definitionFirst,
				TrackProgress:   track,
				TallyPolicy:     policy,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", deck.Title, err)
			}
			if err := runProgram(model); err != nil {
				return err
			}

			printSummaries(cmd.OutOrStdout(), deck.Title, model.Summaries())
			return nil
		},
	}
	cmd.Flags().BoolVar(&definitionFirst, "definition-first", false, "show definitions on the front")
	cmd.Flags().BoolVar(&track, "track", false, "mark cards known or for retry instead of navigating")
	cmd.Flags().BoolVar(&resetTallies, "reset-tallies", false, "clear known/retry counts when restarting")
	return cmd
}

func newMatchCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "match <deck>",
		Short: "Pair terms with their definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := deckfile.Load(args[0])
			if err != nil {
				return err
			}

			model, err := tui.NewMatchModel(deck.Title, tui.CardsFromDeck(deck), session.MatchOptions{Delay: delay})
			if err != nil {
				return fmt.Errorf("%s: %w", deck.Title, err)
			}
			if err := runProgram(model); err != nil {
				return err
			}

			state := model.State()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: matched %d of %d pairs\n", deck.Title, state.Matched, state.Total)
			return nil
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", session.DefaultMatchDelay, "how long match feedback stays on screen")
	return cmd
}

func printSummaries(w io.Writer, title string, summaries []session.Summary) {
	if len(summaries) == 0 {
		return
	}
	for i, s := range summaries {
		_, _ = fmt.Fprintf(w, "%s pass %d: %d/%d known (%.0f%% complete) at %s\n",
			title, i+1, s.CardsCorrect, s.CardsStudied, s.CompletionPercentage,
			s.CompletedAt.Local().Format(time.Kitchen))
	}
}
