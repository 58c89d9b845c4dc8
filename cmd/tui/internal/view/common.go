package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is a screen of the invoice client.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Session is who the TUI acts for and where it saves documents.
type Session struct {
	UserID    string
	OutputDir string
}

// CommonModel tracks the terminal size for the screens that embed it.
type CommonModel struct {
	Width  int
	Height int
}

// chrome is the space taken by the title, filter header, borders and help.
const chrome = 10

func (c *CommonModel) resize(msg tea.WindowSizeMsg) {
	c.Width, c.Height = msg.Width, msg.Height
}

// bodyHeight is the rows left for a screen's main widget, never below 3.
func (c CommonModel) bodyHeight() int {
	return max(c.Height-chrome, 3)
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
