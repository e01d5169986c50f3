package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause key.Binding
	Next      key.Binding
	Previous  key.Binding
	Stop      key.Binding
	Timer     key.Binding
	WifiOnly  key.Binding
	List      key.Binding
	Up        key.Binding
	Down      key.Binding
	Pick      key.Binding
	Close     key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Previous:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Timer: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("0-8", "sleep timer"),
		),
		WifiOnly: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wifi only")),
		List:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "streams")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Pick:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Close:    key.NewBinding(key.WithKeys("esc", "l"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// playerHelp is shown on the now-playing screen.
type playerHelp struct{ k keyMap }

func (h playerHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.PlayPause, h.k.Next, h.k.Previous, h.k.Stop, h.k.Timer, h.k.WifiOnly, h.k.List, h.k.Quit}
}

func (h playerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// pickerHelp is shown while choosing a stream.
type pickerHelp struct{ k keyMap }

func (h pickerHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Pick, h.k.Close, h.k.Quit}
}

func (h pickerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
