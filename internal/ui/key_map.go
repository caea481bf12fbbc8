package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next       key.Binding
	prev       key.Binding
	enter      key.Binding
	back       key.Binding
	add        key.Binding
	remove     key.Binding
	edit       key.Binding
	generate   key.Binding
	resolution key.Binding
	aspect     key.Binding
	open       key.Binding
	theme      key.Binding
	format     key.Binding
	export     key.Binding
	purge      key.Binding
	logout     key.Binding
	yes        key.Binding
	no         key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:       key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next page")),
		prev:       key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev page")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		remove:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit prompt")),
		generate:   key.NewBinding(key.WithKeys("g", "enter"), key.WithHelp("g", "generate")),
		resolution: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resolution")),
		aspect:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "aspect")),
		open:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		format:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "format")),
		export:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		purge:      key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "purge")),
		logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		yes:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:         key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.enter, k.back},
		{k.add, k.remove, k.edit, k.generate},
		{k.theme, k.export, k.purge, k.logout, k.quit},
	}
}
