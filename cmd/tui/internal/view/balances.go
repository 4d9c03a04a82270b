package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/ledger"
)

type balancesState int

const (
	balancesStateChildren balancesState = iota
	balancesStateHistory
)

// BalancesModel shows each child's balance and month-to-date spend, with a
// drill-down into the child's transaction history.
type BalancesModel struct {
	CommonModel
	familyService *family.Service
	ledgerService *ledger.Service

	state         balancesState
	childrenTable table.Model
	historyTable  table.Model

	children []childRow
	selected string

	loading bool
	err     error
}

type childRow struct {
	child   *family.Child
	balance decimal.Decimal
	spend   decimal.Decimal
}

func NewBalancesModel(familySvc *family.Service, ledgerSvc *ledger.Service) BalancesModel {
	childrenColumns := []table.Column{
		{Title: "Child", Width: 16},
		{Title: "Balance", Width: 10},
		{Title: "Spent (month)", Width: 14},
		{Title: "Limit", Width: 10},
		{Title: "Allowance", Width: 10},
	}

	historyColumns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 18},
		{Title: "Amount", Width: 10},
		{Title: "Description", Width: 40},
	}

	ct := table.New(
		table.WithColumns(childrenColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	ht := table.New(
		table.WithColumns(historyColumns),
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
	ct.SetStyles(s)
	ht.SetStyles(s)

	return BalancesModel{
		familyService: familySvc,
		ledgerService: ledgerSvc,
		childrenTable: ct,
		historyTable:  ht,
	}
}

func (m BalancesModel) Title() string { return "Balances" }
func (m BalancesModel) ShortHelp() string {
	if m.state == balancesStateHistory {
		return "Esc: back to children"
	}

	return "Esc: back | Enter: history | r: refresh"
}

func (m BalancesModel) Init() tea.Cmd {
	return m.loadChildrenCmd()
}

func (m BalancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadChildrenMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.children = msg.children
		m.err = nil
		m.refreshChildrenTable()

		return m, nil

	case loadHistoryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.state = balancesStateHistory
		m.refreshHistoryTable(msg.txs)

		return m, nil

	case tea.WindowSizeMsg:
		m.historyTable.SetHeight(msg.Height - 10)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			if m.state == balancesStateHistory {
				m.state = balancesStateChildren
				return m, nil
			}

			return m, Back
		case "r":
			m.loading = true
			return m, m.loadChildrenCmd()
		case "enter":
			if m.state == balancesStateChildren {
				idx := m.childrenTable.Cursor()
				if idx >= 0 && idx < len(m.children) {
					m.selected = m.children[idx].child.Name
					return m, m.loadHistoryCmd(m.children[idx].child)
				}
			}
		}
	}

	var cmd tea.Cmd

	if m.state == balancesStateHistory {
		m.historyTable, cmd = m.historyTable.Update(msg)
	} else {
		m.childrenTable, cmd = m.childrenTable.Update(msg)
	}

	return m, cmd
}

func (m BalancesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	if m.state == balancesStateHistory {
		header := lipgloss.NewStyle().PaddingBottom(1).Render("History: " + m.selected)
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, border.Render(m.historyTable.View())),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(border.Render(m.childrenTable.View()))
}

func (m *BalancesModel) refreshChildrenTable() {
	rows := make([]table.Row, 0, len(m.children))
	for _, row := range m.children {
		rows = append(rows, table.Row{
			row.child.Name,
			FormatAmount(row.balance),
			FormatAmount(row.spend),
			FormatAmount(row.child.MonthlyLimit),
			FormatAmount(row.child.AllowanceAmount),
		})
	}
	m.childrenTable.SetRows(rows)
}

func (m *BalancesModel) refreshHistoryTable(txs []*ledger.Transaction) {
	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Timestamp),
			string(tx.Type),
			FormatAmount(tx.Amount),
			tx.Description,
		})
	}
	m.historyTable.SetRows(rows)
}

// Messages

type loadChildrenMsg struct {
	children []childRow
	err      error
}

func (m BalancesModel) loadChildrenCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		fam, err := m.familyService.GetOrCreate(ctx)
		if err != nil {
			return loadChildrenMsg{err: err}
		}

		now := time.Now()
		rows := make([]childRow, 0, len(fam.Children))

		for _, child := range fam.Children {
			balance, err := m.ledgerService.Balance(ctx, child.ID)
			if err != nil {
				return loadChildrenMsg{err: err}
			}

			spend, err := m.ledgerService.MonthToDateSpend(ctx, child.ID, now)
			if err != nil {
				return loadChildrenMsg{err: err}
			}

			rows = append(rows, childRow{child: child, balance: balance, spend: spend})
		}

		return loadChildrenMsg{children: rows}
	}
}

type loadHistoryMsg struct {
	txs []*ledger.Transaction
	err error
}

func (m BalancesModel) loadHistoryCmd(child *family.Child) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.ledgerService.List(ctx, child.ID)

		return loadHistoryMsg{txs: txs, err: err}
	}
}
