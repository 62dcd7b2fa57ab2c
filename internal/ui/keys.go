package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding. Which ones are live depends on the screen.
type keyMap struct {
	Quit        key.Binding
	Debug       key.Binding
	Start       key.Binding
	ToggleTiers key.Binding
	OpenToken   key.Binding
	Back        key.Binding
	ChooseA     key.Binding
	ChooseB     key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Share       key.Binding
	Copy        key.Binding
	NewRanking  key.Binding
	Submit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Debug:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
		Start:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "start ranking")),
		ToggleTiers: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tier mode")),
		OpenToken:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open token")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		ChooseA:     key.NewBinding(key.WithKeys("1", "left", "a"), key.WithHelp("1/←", "first")),
		ChooseB:     key.NewBinding(key.WithKeys("2", "right", "b"), key.WithHelp("2/→", "second")),
		Undo:        key.NewBinding(key.WithKeys("u", "backspace"), key.WithHelp("u", "undo")),
		Redo:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "redo")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Select:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "pick to explain")),
		Share:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		Copy:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
		NewRanking:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new ranking")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	}
}

// bindings returns the help line entries for a screen.
func (k keyMap) bindings(s screen) []key.Binding {
	switch s {
	case screenInput:
		return []key.Binding{k.Start, k.ToggleTiers, k.OpenToken, k.Debug}
	case screenQuestion:
		return []key.Binding{k.ChooseA, k.ChooseB, k.Undo, k.Redo, k.Share, k.Quit}
	case screenResults:
		return []key.Binding{k.Up, k.Down, k.Select, k.Share, k.Copy, k.Undo, k.NewRanking, k.Quit}
	case screenToken:
		return []key.Binding{k.Submit, k.Back}
	}
	return nil
}
