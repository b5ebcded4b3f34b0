package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 30 * time.Second

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// OpenAccountsMsg asks the root model to open the ledger screen for a deal.
type OpenAccountsMsg struct {
	DealID int64
}

// ReqCtx returns a context with the standard timeout for API requests.
func ReqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
