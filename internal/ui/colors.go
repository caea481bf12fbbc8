package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	darkStyles  = NewPalette("#7D56F4", "#04B575", "#FF4D4D", "#FFA500", "#8A8A8A")
	lightStyles = NewPalette("#5A2FD6", "#027A4B", "#C00000", "#B35900", "#505050")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	card   lipgloss.Style
	bar    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		tab:    NewStyle(h).Padding(0, 1),
		active: NewBold(t).Underline(true).Padding(0, 1),
		card:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 1),
		bar:    NewStyle(s),
	}
}

// paletteFor picks the stylesheet for the stored theme flag.
func paletteFor(dark bool) *Palette {
	if dark {
		return darkStyles
	}
	return lightStyles
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
