package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	Back      key.Binding
	Pause     key.Binding
	Finish    key.Binding
	Digit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:      key.NewBinding(key.WithKeys("esc", "r"), key.WithHelp("esc", "back")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Finish:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Digit: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "pick"),
		),
	}
}

// menuKeys is the help shown on the game menu.
type menuKeys keyMap

func (k menuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Digit, k.Select, k.Quit}
}

func (k menuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// gameKeys is the help shown while a game runs; the input keys depend on the game.
type gameKeys struct {
	keyMap
	input []key.Binding
}

func (k gameKeys) ShortHelp() []key.Binding {
	out := append([]key.Binding{}, k.input...)
	return append(out, k.Pause, k.Finish, k.Back)
}

func (k gameKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
