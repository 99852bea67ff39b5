package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the TUI bindings. Each view shows its own subset in the help line.
type keyMap struct {
	open    key.Binding
	export  key.Binding
	back    key.Binding
	confirm key.Binding
	cancel  key.Binding
	again   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open group")),
		export:  key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "export")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "write file")),
		cancel:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		again:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "back to groups")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forView returns the bindings listed under view v.
func (k keyMap) forView(v ViewState) []key.Binding {
	switch v {
	case GroupListView:
		return []key.Binding{k.open, k.quit}
	case MemberListView:
		return []key.Binding{k.export, k.back, k.quit}
	case ConfirmView:
		return []key.Binding{k.confirm, k.cancel, k.quit}
	case ResultView:
		return []key.Binding{k.again, k.quit}
	default:
		return []key.Binding{k.quit}
	}
}
