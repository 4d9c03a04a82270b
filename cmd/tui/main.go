package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/pennyjar/pennyjar/cmd/tui/internal/view"
	"github.com/pennyjar/pennyjar/internal/config"
	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
	"github.com/pennyjar/pennyjar/internal/request"
	"github.com/pennyjar/pennyjar/internal/storage"
	"github.com/pennyjar/pennyjar/internal/storage/postgres"
	"github.com/pennyjar/pennyjar/internal/storage/sqlite"
)

type model struct {
	familyService  *family.Service
	ledgerService  *ledger.Service
	requestService *request.Service

	currentView View

	pendingView  view.PendingModel
	balancesView view.BalancesModel
}

type View int

const (
	ViewMenu     View = 0
	ViewPending  View = 1
	ViewBalances View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	remote, err := postgres.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}

	local, err := sqlite.New(cfg.SQLite.Path)
	if err != nil {
		slog.Error("failed to open sqlite", "error", err)
		os.Exit(1)
	}

	store := storage.NewFailover(remote, local, local, cfg.Storage.ProbeTimeout)

	advanceCap, err := cfg.AdvanceCap()
	if err != nil {
		slog.Error("invalid rules config", "error", err)
		os.Exit(1)
	}

	bus := notify.NewBus()

	familySvc := family.NewService(store)
	ledgerSvc := ledger.NewService(store, bus)
	requestSvc := request.NewService(store, ledgerSvc, familySvc, request.Rules{
		AdvanceCap:       advanceCap,
		AdvanceMinDesc:   cfg.Rules.AdvanceMinDesc,
		HighValueMinDesc: cfg.Rules.HighValueMinDesc,
	}, bus)

	return model{
		familyService:  familySvc,
		ledgerService:  ledgerSvc,
		requestService: requestSvc,
		currentView:    ViewMenu,
		pendingView:    view.NewPendingModel(requestSvc, familySvc),
		balancesView:   view.NewBalancesModel(familySvc, ledgerSvc),
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
				m.currentView = ViewPending
				m.pendingView = view.NewPendingModel(m.requestService, m.familyService)

				return m, m.pendingView.Init()
			case "2":
				m.currentView = ViewBalances
				m.balancesView = view.NewBalancesModel(m.familyService, m.ledgerService)

				return m, m.balancesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewPending:
		var newModel tea.Model
		newModel, cmd = m.pendingView.Update(msg)
		m.pendingView = newModel.(view.PendingModel)
	case ViewBalances:
		var newModel tea.Model
		newModel, cmd = m.balancesView.Update(msg)
		m.balancesView = newModel.(view.BalancesModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Pennyjar TUI\n\n" +
				"1. Review Pending Requests\n" +
				"2. Balances & History\n\n" +
				"q. Quit",
		)
	case ViewPending:
		return m.pendingView.View()
	case ViewBalances:
		return m.balancesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
