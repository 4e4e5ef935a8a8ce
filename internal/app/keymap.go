package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines global and pane-specific bindings.
type KeyMap struct {
	Quit      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Up        key.Binding
	Down      key.Binding
	PageDown  key.Binding
	PageUp    key.Binding
	Top       key.Binding
	Bottom    key.Binding
	PickOld   key.Binding
	PickNew   key.Binding
	Compare   key.Binding
	Rerun     key.Binding
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	Copy      key.Binding
	Sort      key.Binding
	Help      key.Binding
	Cancel    key.Binding
	Confirm   key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:   key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/l", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("S-tab/h", "prev tab")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "scroll down")),
		PageDown:  key.NewBinding(key.WithKeys("ctrl+f", "pgdown"), key.WithHelp("ctrl-f", "page down")),
		PageUp:    key.NewBinding(key.WithKeys("ctrl+b", "pgup"), key.WithHelp("ctrl-b", "page up")),
		Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PickOld:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "pick old file")),
		PickNew:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pick new file")),
		Compare:   key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "compare")),
		Rerun:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-run")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextMatch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		PrevMatch: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy pane")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle sort")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PickOld, k.PickNew, k.Compare, k.NextTab, k.Search, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PickOld, k.PickNew, k.Compare, k.Rerun, k.Sort},
		{k.NextTab, k.PrevTab, k.Up, k.Down, k.PageDown, k.PageUp, k.Top, k.Bottom},
		{k.Search, k.NextMatch, k.PrevMatch, k.Copy},
		{k.Help, k.Quit},
	}
}
