package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStateForm
	invoicesStateRendering
	invoicesStateResult
)

var statusFilters = []*invoice.Status{
	nil,
	new(invoice.StatusDraft),
	new(invoice.StatusSent),
	new(invoice.StatusPaid),
	new(invoice.StatusOverdue),
	new(invoice.StatusCancelled),
}

type InvoicesModel struct {
	CommonModel
	invoices *invoice.Service
	renderer *render.Service
	money    *money.Formatter
	userID   string

	state   invoicesState
	table   table.Model
	all     []*invoice.Invoice
	shown   []*invoice.Invoice
	search  textinput.Model
	spinner spinner.Model
	form    *huh.Form
	fields  *renderFields

	statusFilterIdx int
	selected        *invoice.Invoice

	loading bool
	err     error
	result  string
}

func NewInvoicesModel(invSvc *invoice.Service, renderSvc *render.Service, f *money.Formatter, sess Session) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 14},
		{Title: "Customer", Width: 24},
		{Title: "Issued", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Total", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "customer or number"
	ti.Prompt = "/ "
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return InvoicesModel{
		invoices: invSvc,
		renderer: renderSvc,
		money:    f,
		userID:   sess.UserID,
		table:    t,
		search:   ti,
		spinner:  sp,
		fields:   newRenderFields(sess.OutputDir),
		loading:  true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	switch m.state {
	case invoicesStateForm:
		return "Navigate form | Esc: cancel"
	case invoicesStateRendering:
		return "Rendering..."
	case invoicesStateResult:
		return "Esc: back to list"
	}

	if m.search.Focused() {
		return "Enter/Esc: stop searching"
	}

	return "Esc: back | Enter: render | /: search | s: status filter | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.all = msg.invs
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(m.bodyHeight())

		return m, nil
	}

	switch m.state {
	case invoicesStateBrowse:
		return m.updateBrowse(msg)
	case invoicesStateForm:
		return m.updateForm(msg)
	case invoicesStateRendering:
		return m.updateRendering(msg)
	case invoicesStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if m.search.Focused() {
		if ok && (keyMsg.Type == tea.KeyEnter || keyMsg.Type == tea.KeyEsc) {
			m.search.Blur()
			m.table.Focus()

			return m, nil
		}

		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refreshTable()

		return m, cmd
	}

	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.loading = true

			return m, m.loadCmd()
		case "/":
			m.table.Blur()
			return m, m.search.Focus()
		case "enter":
			return m.enterForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) enterForm() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.shown) {
		return m, nil
	}

	m.selected = m.shown[idx]
	m.form = huh.NewForm(
		huh.NewGroup(m.fields.strategyField(), m.fields.dirField()),
	).WithWidth(50).WithShowHelp(false)

	m.state = invoicesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoicesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = invoicesStateRendering

	return m, tea.Batch(m.spinner.Tick, m.renderCmd(m.selected, m.fields.strategy, m.fields.dir))
}

func (m InvoicesModel) updateRendering(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(renderResultMsg); ok {
		m.state = invoicesStateResult
		m.result = res.text()

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m InvoicesModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()
	}

	return m, nil
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	switch m.state {
	case invoicesStateRendering:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering %s...", m.spinner.View(), m.selected.FileName()),
		)
	case invoicesStateResult:
		return lipgloss.NewStyle().Padding(1).Render(m.result)
	}

	statusLabel := "All"
	if st := statusFilters[m.statusFilterIdx]; st != nil {
		statusLabel = string(*st)
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | %s", activeStyle(statusLabel), m.search.View())

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == invoicesStateForm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(fmt.Sprintf("Render %s\n\n%s", m.selected.DisplayNumber(), m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InvoicesModel) refreshTable() {
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))

	m.shown = nil
	rows := make([]table.Row, 0, len(m.all))

	for _, inv := range m.all {
		number := inv.DisplayNumber()
		if query != "" &&
			!strings.Contains(strings.ToLower(inv.CustomerName), query) &&
			!strings.Contains(strings.ToLower(number), query) {
			continue
		}

		m.shown = append(m.shown, inv)
		rows = append(rows, table.Row{
			number,
			inv.CustomerName,
			FormatDate(inv.IssueDate),
			FormatDate(&inv.DueDate),
			string(inv.Status),
			m.money.Format(invoice.ComputeTotals(inv).Total, inv.Currency),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	invs []*invoice.Invoice
	err  error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	filter := invoice.ListFilter{Status: statusFilters[m.statusFilterIdx]}

	return func() tea.Msg {
		ctx, cancel := FetchCtx()
		defer cancel()

		invs, err := m.invoices.List(ctx, m.userID, filter)

		return loadInvoicesMsg{invs: invs, err: err}
	}
}

type renderResultMsg struct {
	path string
	err  error
}

// text shows the saved path. Render failures only show the user-facing
// message; data source and file errors are shown as they are.
func (r renderResultMsg) text() string {
	switch {
	case r.err == nil:
	case isRenderFailure(r.err):
		return errorStyle(render.UserMessage(r.err))
	default:
		return errorStyle(fmt.Sprintf("Error: %v", r.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, successStyle("Invoice saved!"), "", r.path)
}

func isRenderFailure(err error) bool {
	var rerr *render.RenderError
	return errors.As(err, &rerr) || errors.Is(err, render.ErrInputIncomplete)
}

func (m InvoicesModel) renderCmd(inv *invoice.Invoice, strategy render.Strategy, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		defer cancel()

		doc, err := m.renderer.RenderByID(ctx, m.userID, inv.ID, strategy)
		if err != nil {
			slog.Debug("failed to render invoice", "invoice_id", inv.ID, "error", err)
			return renderResultMsg{err: err}
		}

		path, err := SaveDocument(dir, doc)

		return renderResultMsg{path: path, err: err}
	}
}
