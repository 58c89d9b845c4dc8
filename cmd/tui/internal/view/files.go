package view

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/jsonfile"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

type filesState int

const (
	filesStateForm filesState = iota
	filesStateRendering
	filesStateResult
)

type filePaths struct {
	invoice  string
	branding string
}

// FilesModel renders the first invoice of an exported JSON payload with the
// branding from a second payload.
type FilesModel struct {
	CommonModel
	renderers map[render.Strategy]render.Renderer

	state   filesState
	form    *huh.Form
	paths   *filePaths
	fields  *renderFields
	spinner spinner.Model
	result  string
}

func NewFilesModel(renderers map[render.Strategy]render.Renderer, sess Session) FilesModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := FilesModel{
		renderers: renderers,
		paths:     &filePaths{},
		fields:    newRenderFields(sess.OutputDir),
		spinner:   sp,
	}
	m.form = m.buildForm()

	return m
}

func (m FilesModel) Title() string { return "Render From Files" }

func (m FilesModel) ShortHelp() string {
	switch m.state {
	case filesStateRendering:
		return "Rendering..."
	case filesStateResult:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m FilesModel) Init() tea.Cmd {
	return m.form.Init()
}

func fileExists(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("cannot read %s", s)
	}

	return nil
}

func (m FilesModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("invoice").
				Title("Invoice JSON").
				Description("A single invoice or an invoice list export").
				Placeholder("./invoice.json").
				Value(&m.paths.invoice).
				Validate(fileExists),
			huh.NewInput().
				Key("branding").
				Title("Branding JSON").
				Placeholder("./branding.json").
				Value(&m.paths.branding).
				Validate(fileExists),
		),
		huh.NewGroup(m.fields.strategyField(), m.fields.dirField()),
	).WithWidth(60).WithShowHelp(false)
}

func (m FilesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case filesStateForm:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = filesStateRendering

		return m, tea.Batch(m.spinner.Tick, m.renderCmd(*m.paths, m.fields.strategy, m.fields.dir))

	case filesStateRendering:
		if res, ok := msg.(renderResultMsg); ok {
			m.state = filesStateResult
			m.result = res.text()

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case filesStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m FilesModel) View() string {
	switch m.state {
	case filesStateRendering:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering %s...", m.spinner.View(), m.paths.invoice),
		)
	case filesStateResult:
		return lipgloss.NewStyle().Padding(1).Render(m.result)
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View())
}

func (m FilesModel) renderCmd(paths filePaths, strategy render.Strategy, dir string) tea.Cmd {
	return func() tea.Msg {
		src, err := jsonfile.Load(strings.TrimSpace(paths.invoice), strings.TrimSpace(paths.branding))
		if err != nil {
			return renderResultMsg{err: err}
		}

		inv, err := src.First()
		if err != nil {
			return renderResultMsg{err: err}
		}

		svc := render.NewService(invoice.NewService(src), branding.NewService(src), m.renderers)

		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		defer cancel()

		doc, err := svc.RenderByID(ctx, "", inv.ID, strategy)
		if err != nil {
			slog.Debug("failed to render invoice file", "path", paths.invoice, "error", err)
			return renderResultMsg{err: err}
		}

		path, err := SaveDocument(dir, doc)

		return renderResultMsg{path: path, err: err}
	}
}
