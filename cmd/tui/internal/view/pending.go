package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/request"
)

type pendingState int

const (
	pendingStateBrowse pendingState = iota
	pendingStateApprove
	pendingStateReject
)

// PendingModel is the parent's approval queue: every pending purchase and
// advance request across the household, with approve and reject actions.
type PendingModel struct {
	CommonModel
	requestService *request.Service
	familyService  *family.Service

	state pendingState
	table table.Model
	reqs  []*request.Request
	fam   *family.Family
	form  *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formComment string
	formReason  string
}

func NewPendingModel(requestSvc *request.Service, familySvc *family.Service) PendingModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Child", Width: 14},
		{Title: "Kind", Width: 10},
		{Title: "Amount", Width: 10},
		{Title: "Description", Width: 44},
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

	return PendingModel{
		requestService: requestSvc,
		familyService:  familySvc,
		table:          t,
	}
}

func (m PendingModel) Title() string { return "Pending Requests" }
func (m PendingModel) ShortHelp() string {
	if m.state != pendingStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: approve | x: reject | r: refresh"
}

func (m PendingModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m PendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.reqs = msg.reqs
		m.fam = msg.fam
		m.err = nil
		m.refreshTable()

		return m, nil

	case decisionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.outcome
		}

		m.state = pendingStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadPendingCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case pendingStateBrowse:
		return m.updateBrowse(msg)
	case pendingStateApprove, pendingStateReject:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m PendingModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPendingCmd()
		case "a":
			return m.enterApproveMode()
		case "x":
			return m.enterRejectMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PendingModel) enterApproveMode() (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	m.formComment = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("comment").
				Title("Comment (optional)").
				Value(&m.formComment),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = pendingStateApprove
	m.table.Blur()

	return m, m.form.Init()
}

func (m PendingModel) enterRejectMode() (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	m.formReason = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("reason").
				Title("Reason").
				Value(&m.formReason).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a rejection reason is required")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = pendingStateReject
	m.table.Blur()

	return m, m.form.Init()
}

func (m PendingModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = pendingStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == pendingStateApprove {
		return m, m.approveCmd()
	}

	return m, m.rejectCmd()
}

func (m PendingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pending requests...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state != pendingStateBrowse && m.form != nil {
		title := "Approve Request"
		if m.state == pendingStateReject {
			title = "Reject Request"
		}

		detail := ""
		if req := m.selected(); req != nil {
			detail = fmt.Sprintf("%s %s for %s", req.Kind, FormatAmount(req.Amount), m.childName(req.ChildID))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s\n\n%s", title, detail, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m PendingModel) selected() *request.Request {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.reqs) {
		return nil
	}

	return m.reqs[idx]
}

func (m PendingModel) childName(id uuid.UUID) string {
	if m.fam != nil {
		if c := m.fam.Child(id); c != nil {
			return c.Name
		}
	}

	return id.String()[:8]
}

func (m *PendingModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.reqs))
	for _, req := range m.reqs {
		rows = append(rows, table.Row{
			FormatDate(req.CreatedAt),
			m.childName(req.ChildID),
			string(req.Kind),
			FormatAmount(req.Amount),
			req.Description,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadPendingMsg struct {
	reqs []*request.Request
	fam  *family.Family
	err  error
}

func (m PendingModel) loadPendingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		fam, err := m.familyService.GetOrCreate(ctx)
		if err != nil {
			return loadPendingMsg{err: err}
		}

		reqs, err := m.requestService.PendingForFamily(ctx)

		return loadPendingMsg{reqs: reqs, fam: fam, err: err}
	}
}

type decisionMsg struct {
	outcome string
	err     error
}

func (m PendingModel) approveCmd() tea.Cmd {
	req := m.selected()
	if req == nil || m.fam == nil {
		return nil
	}

	var comment *string
	if trimmed := strings.TrimSpace(m.formComment); trimmed != "" {
		comment = &trimmed
	}

	id, approverID := req.ID, m.fam.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.requestService.Approve(ctx, id, approverID, comment); err != nil {
			return decisionMsg{err: err}
		}

		return decisionMsg{outcome: "Request approved"}
	}
}

func (m PendingModel) rejectCmd() tea.Cmd {
	req := m.selected()
	if req == nil || m.fam == nil {
		return nil
	}

	id, deciderID := req.ID, m.fam.ID
	reason := strings.TrimSpace(m.formReason)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.requestService.Reject(ctx, id, deciderID, reason); err != nil {
			return decisionMsg{err: err}
		}

		return decisionMsg{outcome: "Request rejected"}
	}
}
