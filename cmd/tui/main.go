package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/melkban/dealdesk/cmd/tui/internal/view"
	"github.com/melkban/dealdesk/internal/api"
	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/receipt"
)

type View int

const (
	ViewDeals View = iota
	ViewLedger
)

type model struct {
	receipts *receipt.Manager

	currentView View

	dealsView  view.DealsModel
	ledgerView view.LedgerModel
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		slog.Error("failed to build api client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	if err := client.EnsureSession(ctx); err != nil {
		slog.Error("failed to establish session", "error", err)
		os.Exit(1)
	}

	receipts := receipt.NewManager(client, "")

	return model{
		receipts:    receipts,
		currentView: ViewDeals,
		dealsView:   view.NewDealsModel(client, cfg.Role()),
		ledgerView:  view.NewLedgerModel(client, receipts),
	}
}

func (m model) Init() tea.Cmd {
	return m.dealsView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.receipts.Close()
			return m, tea.Quit
		}

	case view.OpenAccountsMsg:
		m.currentView = ViewLedger
		m.ledgerView, cmd = m.ledgerView.Open(msg.DealID)

		return m, cmd

	case view.DetailClosedMsg:
		// The deal list owns the detail modal even when the ledger is in
		// front (detail can hand off to the ledger directly).
		var newModel tea.Model
		newModel, cmd = m.dealsView.Update(msg)
		m.dealsView = newModel.(view.DealsModel)

		return m, cmd

	case view.BackMsg:
		if m.currentView == ViewLedger {
			// Leaving the ledger releases any open receipt and
			// refreshes the deal list.
			m.receipts.Close()
			m.currentView = ViewDeals

			return m, m.dealsView.Init()
		}

		return m, tea.Quit
	}

	switch m.currentView {
	case ViewDeals:
		var newModel tea.Model
		newModel, cmd = m.dealsView.Update(msg)
		m.dealsView = newModel.(view.DealsModel)
	case ViewLedger:
		m.ledgerView, cmd = m.ledgerView.Update(msg)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLedger:
		return m.ledgerView.View()
	}

	return m.dealsView.View()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
