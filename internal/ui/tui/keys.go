package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Top     key.Binding
	Submit  key.Binding
	Wrong   key.Binding
	Explain key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Next:    key.NewBinding(key.WithKeys("n", "right", "pgdown")),
		Prev:    key.NewBinding(key.WithKeys("p", "left", "pgup")),
		Top:     key.NewBinding(key.WithKeys("t", "home")),
		Submit:  key.NewBinding(key.WithKeys("enter")),
		Wrong:   key.NewBinding(key.WithKeys("w", "tab")),
		Explain: key.NewBinding(key.WithKeys("x")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// labelKey maps a-h (or A-H) to an option label index.
func labelKey(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	switch {
	case c >= 'a' && c <= 'h':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'H':
		return int(c - 'A'), true
	}
	return 0, false
}
