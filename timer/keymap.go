package timer

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePause key.Binding
	stop        key.Binding
	switchSide  key.Binding
	focus       key.Binding
	quit        key.Binding
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.togglePause, k.stop, k.switchSide, k.focus, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeymap = keymap{
	togglePause: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "pause/resume"),
	),
	stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	switchSide: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "switch side"),
	),
	focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next timer"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
