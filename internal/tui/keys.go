package tui

import "github.com/charmbracelet/bubbles/key"

type studyKeyMap struct {
	Flip    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Known   key.Binding
	Retry   key.Binding
	Restart key.Binding
	Last    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultStudyKeys() studyKeyMap {
	return studyKeyMap{
		Flip:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "flip")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
		Known:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "know it")),
		Retry:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "study again")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Last:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back to last card")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "quit")),
	}
}

// withTracking enables exactly one of the navigation and marking bindings.
func (k studyKeyMap) withTracking(tracking bool) studyKeyMap {
	k.Next.SetEnabled(!tracking)
	k.Prev.SetEnabled(!tracking)
	k.Known.SetEnabled(tracking)
	k.Retry.SetEnabled(tracking)
	return k
}

func (k studyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Next, k.Prev, k.Known, k.Retry, k.Help, k.Quit}
}

func (k studyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flip, k.Next, k.Prev, k.Known, k.Retry},
		{k.Restart, k.Last, k.Help, k.Quit},
	}
}

type matchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Select key.Binding
	Retry  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultMatchKeys() matchKeyMap {
	return matchKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑/↓", "move")),
		Switch: key.NewBinding(key.WithKeys("tab", "left", "right", "h", "l"), key.WithHelp("tab", "switch column")),
		Select: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "select")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "play again")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k matchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Switch, k.Select, k.Help, k.Quit}
}

func (k matchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch, k.Select},
		{k.Retry, k.Help, k.Quit},
	}
}
