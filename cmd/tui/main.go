package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/payflow/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/payflow/internal/app"
	"github.com/MrJamesThe3rd/payflow/internal/config"
)

type model struct {
	app     *app.App
	session view.Session
	name    string
	size    tea.WindowSizeMsg

	currentView View

	invoicesView view.InvoicesModel
	filesView    view.FilesModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewInvoices View = 1
	ViewFiles    View = 2
	ViewExport   View = 3
)

func initialModel(cfg *config.Config, a *app.App) model {
	sess := view.Session{UserID: cfg.TUI.UserID, OutputDir: cfg.TUI.OutputDir}

	return model{
		app:         a,
		session:     sess,
		name:        cfg.App.Name,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.app.Invoices, m.app.Render, m.app.Money, m.session)

				return m, tea.Batch(m.invoicesView.Init(), m.replaySize)
			case "2":
				m.currentView = ViewFiles
				m.filesView = view.NewFilesModel(m.app.Renderers, m.session)

				return m, tea.Batch(m.filesView.Init(), m.replaySize)
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.session)

				return m, tea.Batch(m.exportView.Init(), m.replaySize)
			}
		}
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewFiles:
		var newModel tea.Model
		newModel, cmd = m.filesView.Update(msg)
		m.filesView = newModel.(view.FilesModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

// replaySize hands the last known terminal size to a freshly opened view.
func (m model) replaySize() tea.Msg {
	if m.size.Height == 0 {
		return nil
	}

	return m.size
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.name + " Invoices\n\n" +
				"1. Browse & Render Invoices\n" +
				"2. Render From JSON Files\n" +
				"3. Export Invoices\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		current = m.invoicesView
	case ViewFiles:
		current = m.filesView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.Open(cfg)
	if err != nil {
		slog.Error("failed to open data source", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(cfg, a))

	_, runErr := p.Run()

	if err := a.Close(); err != nil {
		slog.Error("failed to release resources", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}
