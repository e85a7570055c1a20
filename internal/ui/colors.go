package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the stylesheet for the sync TUI. One instance is shared by
// all views so colors stay consistent across screens.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = Palette{
	title: fg("#7D56F4").Bold(true).MarginBottom(1),
	ok:    fg("#04B575").Bold(true),
	err:   fg("#FF5F87").Bold(true),
	warn:  fg("#FFA500"),
	help:  fg("#626262").Italic(true),
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
