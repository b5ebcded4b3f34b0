// Package ledger models the per-deal financial record: posted transactions
// grouped by account, plus pending transactions awaiting approval.
package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/melkban/dealdesk/internal/money"
)

// Transaction is one posted ledger entry. Ordering within an account is
// server-supplied and preserved.
type Transaction struct {
	Date          string `json:"date"`
	Direction     string `json:"direction"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	Description   string `json:"description"`
	CreatedByName string `json:"created_by_name,omitempty"`
	ReceiptURL    string `json:"receipt_url,omitempty"`
}

// PendingTransaction is a ledger entry awaiting approval before posting.
type PendingTransaction struct {
	ID          int64  `json:"id"`
	Account     string `json:"account"`
	Date        string `json:"date"`
	Direction   string `json:"direction"`
	Amount      int64  `json:"amount"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// Account identifies one account of the deal's ledger.
type Account struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Book is the accounts-page payload: everything the ledger screen needs,
// delivered in one fetch when the screen opens.
type Book struct {
	DealID            int64                    `json:"deal_id"`
	DealTitle         string                   `json:"deal_title"`
	Accounts          []Account                `json:"accounts"`
	Payments          map[string][]Transaction `json:"payments_by_account"`
	Pending           []PendingTransaction     `json:"pending_transactions"`
	CanApprovePending bool                     `json:"can_approve_pending"`
}

// Transactions returns the posted entries of an account, empty when the
// account has none.
func (b *Book) Transactions(code string) []Transaction {
	if b == nil || b.Payments == nil {
		return nil
	}

	return b.Payments[code]
}

// Row is the presentation-independent view model of one ledger line.
type Row struct {
	Date        string
	Direction   string
	Amount      string
	Method      string
	Description string
	Creator     string
	ReceiptURL  string
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "—"
	}

	return v
}

// BuildRows derives table rows for an account's transactions.
func BuildRows(txs []Transaction) []Row {
	rows := make([]Row, len(txs))

	for i, tx := range txs {
		rows[i] = Row{
			Date:        orDash(tx.Date),
			Direction:   orDash(tx.Direction),
			Amount:      money.FormatAmount(tx.Amount),
			Method:      orDash(tx.Method),
			Description: orDash(tx.Description),
			Creator:     orDash(tx.CreatedByName),
			ReceiptURL:  tx.ReceiptURL,
		}
	}

	return rows
}

// ErrNonPositiveAmount rejects a payment before any request is sent.
var ErrNonPositiveAmount = errors.New("payment amount must be positive")

// ErrMissingAccount rejects a payment with no target account.
var ErrMissingAccount = errors.New("payment account is required")

// PaymentParams is a payment-registration submission. Amount holds whole
// rials after normalization.
type PaymentParams struct {
	Account     string
	Amount      int64
	Method      string
	Description string
	Date        string

	// ReceiptPath optionally attaches a local file as proof of payment.
	ReceiptPath string
}

// Validate blocks invalid submissions client-side.
func (p PaymentParams) Validate() error {
	if strings.TrimSpace(p.Account) == "" {
		return ErrMissingAccount
	}

	if p.Amount <= 0 {
		return ErrNonPositiveAmount
	}

	return nil
}

//go:generate mockgen -source=ledger.go -destination=gateway_mock.go -package=ledger

// Gateway is the backend surface the ledger screen depends on.
type Gateway interface {
	AccountsPage(ctx context.Context, dealID int64) (*Book, error)
	RegisterPayment(ctx context.Context, dealID int64, params PaymentParams) (string, error)
	ApprovePending(ctx context.Context, id int64) error
	RejectPending(ctx context.Context, id int64, reason string) error
}
