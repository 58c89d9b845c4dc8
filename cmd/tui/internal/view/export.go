package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/payflow/internal/export"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

// exportFields holds the batch form bindings; statusIdx indexes statusFilters.
type exportFields struct {
	*renderFields
	statusIdx int
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	userID        string

	state   exportState
	err     error
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model
	summary string
	failed  error
}

func NewExportModel(svc *export.Service, sess Session) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		userID:        sess.UserID,
		state:         exportStateForm,
		fields:        &exportFields{renderFields: newRenderFields(sess.OutputDir)},
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Invoices" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	filter := invoice.ListFilter{Status: statusFilters[m.fields.statusIdx]}

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(filter, m.fields.strategy, m.fields.dir))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.failed = result.failed
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) buildForm() *huh.Form {
	statusOptions := make([]huh.Option[int], len(statusFilters))
	for i, st := range statusFilters {
		label := "All"
		if st != nil {
			label = string(*st)
		}

		statusOptions[i] = huh.NewOption(label, i)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("status").
				Title("Invoices").
				Options(statusOptions...).
				Value(&m.fields.statusIdx),
			m.fields.strategyField(),
			m.fields.dirField(),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering invoices...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		msg := render.UserMessage(m.err)
		if !isRenderFailure(m.err) {
			msg = fmt.Sprintf("Error: %v", m.err)
		}

		return lipgloss.NewStyle().Padding(1).Render(errorStyle(msg))
	}

	header := successStyle("Export Complete!")
	if m.failed != nil {
		header = errorStyle("Export finished with failures")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Summary:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	body   string
	failed error
	err    error
}

const exportTimeout = 5 * time.Minute

func (m ExportModel) runExportCmd(filter invoice.ListFilter, strategy render.Strategy, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		items, err := m.exportService.Export(ctx, m.userID, filter, strategy, dir)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{
			body:   m.exportService.GenerateSummary(items),
			failed: export.Err(items),
		}
	}
}
