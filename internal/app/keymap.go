package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines global and pane-specific bindings.
type KeyMap struct {
	Quit         key.Binding
	Back         key.Binding
	Compare      key.Binding
	Clear        key.Binding
	OpenLeft     key.Binding
	OpenRight    key.Binding
	Attach       key.Binding
	Edit         key.Binding
	SaveEdit     key.Binding
	History      key.Binding
	ToggleCase   key.Binding
	ToggleSpace  key.Binding
	ToggleFocus  key.Binding
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Top          key.Binding
	Bottom       key.Binding
	CopySummary  key.Binding
	CopyHistory  key.Binding
	LoadSelected key.Binding
	Help         key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Compare:      key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c/enter", "compare")),
		Clear:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		OpenLeft:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open left")),
		OpenRight:    key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "open right")),
		Attach:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attach files")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit focused side")),
		SaveEdit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save edit")),
		History:      key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "history")),
		ToggleCase:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "ignore case")),
		ToggleSpace:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "ignore whitespace")),
		ToggleFocus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch side")),
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "scroll up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "scroll down")),
		Left:         key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/left", "scroll left")),
		Right:        key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/right", "scroll right")),
		PageUp:       key.NewBinding(key.WithKeys("ctrl+b", "pgup"), key.WithHelp("ctrl+b", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("ctrl+f", "pgdown"), key.WithHelp("ctrl+f", "page down")),
		Top:          key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
		Bottom:       key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
		CopySummary:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy summary")),
		CopyHistory:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy history")),
		LoadSelected: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load selected")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}
