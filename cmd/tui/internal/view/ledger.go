package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/melkban/dealdesk/internal/ledger"
	"github.com/melkban/dealdesk/internal/money"
	"github.com/melkban/dealdesk/internal/receipt"
)

type ledgerState int

const (
	ledgerLoading ledgerState = iota
	ledgerBrowse
	ledgerPayments
	ledgerReceiptOpen
	ledgerRegister
	ledgerConfirmPending
	ledgerRejectReason
)

type ledgerSection int

const (
	sectionAccounts ledgerSection = iota
	sectionPending
)

// LedgerModel is the deal-accounts screen: per-account transaction
// tables, receipt previews, payment registration and pending-transaction
// approval.
type LedgerModel struct {
	CommonModel
	gateway  ledger.Gateway
	receipts *receipt.Manager

	state   ledgerState
	section ledgerSection
	dealID  int64
	book    *ledger.Book

	accountCursor int
	pendingCursor int

	table       table.Model
	openAccount string

	receiptView    receipt.View
	receiptLoading bool

	// busyPending is the pending-transaction id with a request in
	// flight; its controls stay disabled until the result arrives.
	busyPending int64

	form    *huh.Form
	formMsg string

	errMsg string
	flash  string
}

func NewLedgerModel(gateway ledger.Gateway, receipts *receipt.Manager) LedgerModel {
	columns := []table.Column{
		{Title: "تاریخ", Width: 12},
		{Title: "نوع", Width: 10},
		{Title: "مبلغ (ریال)", Width: 16},
		{Title: "روش", Width: 10},
		{Title: "توضیحات", Width: 24},
		{Title: "ثبت‌کننده", Width: 14},
		{Title: "رسید", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	return LedgerModel{
		gateway:  gateway,
		receipts: receipts,
		state:    ledgerLoading,
		table:    t,
	}
}

// Open points the screen at a deal and fetches its book.
func (m LedgerModel) Open(dealID int64) (LedgerModel, tea.Cmd) {
	m.state = ledgerLoading
	m.dealID = dealID
	m.book = nil
	m.errMsg = ""
	m.flash = ""
	m.accountCursor = 0
	m.pendingCursor = 0
	m.section = sectionAccounts
	m.busyPending = 0

	return m, m.loadBookCmd(dealID)
}

func (m LedgerModel) ShortHelp() string {
	switch m.state {
	case ledgerBrowse:
		help := "↑/↓: انتخاب | Enter: تراکنش‌ها | p: ثبت تراکنش | Tab: بخش | Esc: بازگشت"
		if m.section == sectionPending {
			help = "↑/↓: انتخاب | a: تایید | r: رد | Tab: بخش | Esc: بازگشت"
		}

		return help
	case ledgerPayments:
		return "↑/↓: حرکت | Enter: مشاهده رسید | Esc: بازگشت"
	case ledgerReceiptOpen:
		return "Esc: بستن رسید"
	case ledgerRegister, ledgerConfirmPending, ledgerRejectReason:
		return "Enter: ثبت | Esc: انصراف"
	}

	return ""
}

func (m LedgerModel) Update(msg tea.Msg) (LedgerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bookLoadedMsg:
		if msg.dealID != m.dealID {
			return m, nil
		}

		if msg.err != nil {
			m.state = ledgerBrowse
			m.errMsg = "خطا در دریافت اطلاعات حساب‌ها."

			return m, nil
		}

		m.state = ledgerBrowse
		m.errMsg = ""
		m.book = msg.book
		m.busyPending = 0

		if m.pendingCursor >= len(m.book.Pending) {
			m.pendingCursor = 0
		}

		if len(m.book.Pending) == 0 {
			m.section = sectionAccounts
		}

		return m, nil

	case receiptOpenedMsg:
		if m.state != ledgerReceiptOpen {
			return m, nil
		}

		m.receiptLoading = false

		if msg.err != nil {
			// Fetch failures fall back to the original resource URL.
			m.receiptView = receipt.View{FallbackURL: msg.url}
			return m, nil
		}

		m.receiptView = msg.view

		return m, nil

	case paymentDoneMsg:
		if msg.err != nil {
			m.state = ledgerBrowse
			m.flash = paymentErrorText(msg.err)

			return m, nil
		}

		// Full reload: the registered transaction must appear in the
		// now-current book.
		m.state = ledgerLoading
		m.flash = msg.message

		return m, m.loadBookCmd(m.dealID)

	case pendingDoneMsg:
		if msg.id != m.busyPending {
			return m, nil
		}

		m.busyPending = 0

		if msg.err != nil {
			m.flash = actionErrorText(msg.err)
			return m, nil
		}

		m.state = ledgerLoading
		m.flash = ""

		return m, m.loadBookCmd(m.dealID)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.table.SetHeight(msg.Height - 10)
	}

	switch m.state {
	case ledgerBrowse:
		return m.updateBrowse(msg)
	case ledgerPayments:
		return m.updatePayments(msg)
	case ledgerReceiptOpen:
		return m.updateReceipt(msg)
	case ledgerRegister:
		return m.updateRegister(msg)
	case ledgerConfirmPending:
		return m.updateConfirmPending(msg)
	case ledgerRejectReason:
		return m.updateRejectReason(msg)
	}

	return m, nil
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (LedgerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back

	case "tab":
		if m.book != nil && len(m.book.Pending) > 0 {
			if m.section == sectionAccounts {
				m.section = sectionPending
			} else {
				m.section = sectionAccounts
			}
		}

	case "up", "k":
		if m.section == sectionAccounts && m.accountCursor > 0 {
			m.accountCursor--
		}

		if m.section == sectionPending && m.pendingCursor > 0 {
			m.pendingCursor--
		}

	case "down", "j":
		if m.book == nil {
			break
		}

		if m.section == sectionAccounts && m.accountCursor < len(m.book.Accounts)-1 {
			m.accountCursor++
		}

		if m.section == sectionPending && m.pendingCursor < len(m.book.Pending)-1 {
			m.pendingCursor++
		}

	case "enter":
		if m.section == sectionAccounts && m.book != nil && m.accountCursor < len(m.book.Accounts) {
			account := m.book.Accounts[m.accountCursor]
			m.openAccount = account.Code
			m.refreshTable()
			m.state = ledgerPayments
		}

	case "p":
		if m.section == sectionAccounts {
			return m.openRegisterForm()
		}

	case "a":
		if m.section == sectionPending && m.book != nil && m.book.CanApprovePending &&
			m.busyPending == 0 && m.pendingCursor < len(m.book.Pending) {
			return m.openApprovePendingConfirm(m.book.Pending[m.pendingCursor].ID)
		}

	case "r":
		if m.section == sectionPending && m.book != nil && m.book.CanApprovePending &&
			m.busyPending == 0 && m.pendingCursor < len(m.book.Pending) {
			return m.openRejectReasonForm(m.book.Pending[m.pendingCursor].ID)
		}
	}

	return m, nil
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0)

	for _, row := range ledger.BuildRows(m.book.Transactions(m.openAccount)) {
		receiptCell := "—"
		if row.ReceiptURL != "" {
			receiptCell = "مشاهده رسید"
		}

		rows = append(rows, table.Row{
			row.Date,
			row.Direction,
			row.Amount,
			row.Method,
			row.Description,
			row.Creator,
			receiptCell,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m LedgerModel) updatePayments(msg tea.Msg) (LedgerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = ledgerBrowse
			return m, nil

		case "enter":
			txs := m.book.Transactions(m.openAccount)

			idx := m.table.Cursor()
			if idx >= 0 && idx < len(txs) && txs[idx].ReceiptURL != "" {
				m.state = ledgerReceiptOpen
				m.receiptLoading = true
				m.receiptView = receipt.View{}

				return m, m.openReceiptCmd(txs[idx].ReceiptURL)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) updateReceipt(msg tea.Msg) (LedgerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "enter":
			// Closing the preview releases the transient resource.
			m.state = ledgerPayments
			m.receiptView = receipt.View{}

			return m, m.closeReceiptCmd()
		}
	}

	return m, nil
}

func (m LedgerModel) openRegisterForm() (LedgerModel, tea.Cmd) {
	if m.book == nil || len(m.book.Accounts) == 0 {
		return m, nil
	}

	m.formMsg = ""

	options := make([]huh.Option[string], 0, len(m.book.Accounts))
	for _, account := range m.book.Accounts {
		options = append(options, huh.NewOption(account.Name, account.Code))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("account").
				Title("حساب").
				Options(options...),

			huh.NewInput().
				Key("amount").
				Title("مبلغ (ریال)").
				Placeholder("مثلاً ۵٬۰۰۰٬۰۰۰").
				Validate(func(s string) error {
					amount, ok := money.ParseAmount(s)
					if !ok || amount <= 0 {
						return fmt.Errorf("مبلغ را به درستی وارد کنید")
					}

					return nil
				}),

			huh.NewInput().
				Key("method").
				Title("روش پرداخت"),

			huh.NewInput().
				Key("date").
				Title("تاریخ").
				Placeholder("۱۴۰۳/۰۵/۰۱"),

			huh.NewInput().
				Key("description").
				Title("توضیحات"),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = ledgerRegister

	return m, m.form.Init()
}

func (m LedgerModel) updateRegister(msg tea.Msg) (LedgerModel, tea.Cmd) {
	// A nil form means the submission is in flight; wait for the result.
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ledgerBrowse
			m.form = nil
			m.formMsg = ""

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

	// Results live in the form, keyed per field; model fields would
	// only see a stale copy.
	amount, ok := money.ParseAmount(m.form.GetString("amount"))
	if !ok || amount <= 0 {
		// Blocked client-side; no request is sent.
		m.flash = "مبلغ را به درستی وارد کنید."
		m.state = ledgerBrowse
		m.form = nil

		return m, nil
	}

	params := ledger.PaymentParams{
		Account:     m.form.GetString("account"),
		Amount:      amount,
		Method:      strings.TrimSpace(m.form.GetString("method")),
		Description: strings.TrimSpace(m.form.GetString("description")),
		Date:        strings.TrimSpace(m.form.GetString("date")),
	}

	m.form = nil
	m.formMsg = "در حال ثبت..."

	return m, m.registerPaymentCmd(params)
}

func (m LedgerModel) openApprovePendingConfirm(id int64) (LedgerModel, tea.Cmd) {
	m.busyPending = id
	m.flash = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirmed").
				Title("آیا از تایید این تراکنش مطمئن هستید؟").
				Affirmative("بله").
				Negative("خیر"),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = ledgerConfirmPending

	return m, m.form.Init()
}

func (m LedgerModel) updateConfirmPending(msg tea.Msg) (LedgerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ledgerBrowse
			m.form = nil
			m.busyPending = 0

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

	id := m.busyPending
	confirmed := m.form.GetBool("confirmed")
	m.form = nil
	m.state = ledgerBrowse

	if !confirmed {
		// Declined: no request is sent.
		m.busyPending = 0
		return m, nil
	}

	return m, m.approvePendingCmd(id)
}

func (m LedgerModel) openRejectReasonForm(id int64) (LedgerModel, tea.Cmd) {
	m.busyPending = id

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("reason").
				Title("علت رد (اختیاری)"),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = ledgerRejectReason

	return m, m.form.Init()
}

func (m LedgerModel) updateRejectReason(msg tea.Msg) (LedgerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			// Declined: no request is sent.
			m.state = ledgerBrowse
			m.form = nil
			m.busyPending = 0

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

	id := m.busyPending
	reason := strings.TrimSpace(m.form.GetString("reason"))
	m.form = nil
	m.state = ledgerBrowse

	return m, m.rejectPendingCmd(id, reason)
}

func (m LedgerModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("دفتر حساب معامله")

	switch m.state {
	case ledgerLoading:
		return lipgloss.NewStyle().Padding(1).Render(title + "\n\nدر حال دریافت اطلاعات...")

	case ledgerRegister, ledgerConfirmPending, ledgerRejectReason:
		view := title
		if m.form != nil {
			view += "\n\n" + m.form.View()
		}

		if m.formMsg != "" {
			view += "\n" + m.formMsg
		}

		return lipgloss.NewStyle().Padding(1).Render(view)

	case ledgerPayments:
		return lipgloss.NewStyle().Padding(1).Render(m.renderPayments())

	case ledgerReceiptOpen:
		return lipgloss.NewStyle().Padding(1).Render(m.renderReceipt())
	}

	return lipgloss.NewStyle().Padding(1).Render(m.renderBrowse(title))
}

func (m LedgerModel) renderBrowse(title string) string {
	var b strings.Builder

	b.WriteString(title)

	if m.book != nil && m.book.DealTitle != "" {
		b.WriteString("  —  " + m.book.DealTitle)
	}

	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n" + m.errMsg + "\n")
		return b.String()
	}

	if m.flash != "" {
		b.WriteString("\n" + m.flash + "\n")
	}

	if m.book == nil || len(m.book.Accounts) == 0 {
		b.WriteString("\nحسابی برای این معامله ثبت نشده است.\n")
		return b.String()
	}

	b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("حساب‌ها") + "\n")

	for i, account := range m.book.Accounts {
		count := len(m.book.Transactions(account.Code))
		line := fmt.Sprintf("%s (%s) — %s تراکنش",
			account.Name, account.Code, money.PersianDigits(fmt.Sprintf("%d", count)))

		if m.section == sectionAccounts && i == m.accountCursor {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + line)
		} else {
			line = "  " + line
		}

		b.WriteString(line + "\n")
	}

	if len(m.book.Pending) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("تراکنش‌های در انتظار تایید") + "\n")

		for i, p := range m.book.Pending {
			line := fmt.Sprintf("%s | %s | %s | %s",
				p.Date, p.Direction, money.FormatAmount(p.Amount), p.Description)

			if p.ID == m.busyPending {
				line += "  (در حال ارسال...)"
			}

			if m.section == sectionPending && i == m.pendingCursor {
				line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + line)
			} else {
				line = "  " + line
			}

			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

func (m LedgerModel) renderPayments() string {
	name := m.openAccount

	for _, account := range m.book.Accounts {
		if account.Code == m.openAccount && account.Name != "" {
			name = account.Name
			break
		}
	}

	header := lipgloss.NewStyle().Bold(true).Render("تراکنش‌های حساب " + name)

	if len(m.book.Transactions(m.openAccount)) == 0 {
		return header + "\n\nهیچ تراکنشی برای این حساب ثبت نشده است."
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return header + "\n" + tableView
}

func (m LedgerModel) renderReceipt() string {
	header := lipgloss.NewStyle().Bold(true).Render("رسید تراکنش")

	if m.receiptLoading {
		return header + "\n\nدر حال بارگذاری رسید..."
	}

	if m.receiptView.ImagePath != "" {
		return header + "\n\nتصویر رسید ذخیره شد: " + m.receiptView.ImagePath
	}

	return header + "\n\nپیش‌نمایش در دسترس نیست.\nباز کردن رسید: " + m.receiptView.FallbackURL
}

func paymentErrorText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}

	return "خطا در ثبت تراکنش."
}

func actionErrorText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}

	return "خطا در ارتباط با سرور."
}

// Messages

type bookLoadedMsg struct {
	dealID int64
	book   *ledger.Book
	err    error
}

type receiptOpenedMsg struct {
	url  string
	view receipt.View
	err  error
}

type paymentDoneMsg struct {
	message string
	err     error
}

type pendingDoneMsg struct {
	id  int64
	err error
}

func (m LedgerModel) loadBookCmd(dealID int64) tea.Cmd {
	gateway := m.gateway

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		book, err := gateway.AccountsPage(ctx, dealID)

		return bookLoadedMsg{dealID: dealID, book: book, err: err}
	}
}

func (m LedgerModel) openReceiptCmd(url string) tea.Cmd {
	receipts := m.receipts

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		view, err := receipts.Open(ctx, url)

		return receiptOpenedMsg{url: url, view: view, err: err}
	}
}

func (m LedgerModel) closeReceiptCmd() tea.Cmd {
	receipts := m.receipts

	return func() tea.Msg {
		receipts.Close()
		return nil
	}
}

func (m LedgerModel) registerPaymentCmd(params ledger.PaymentParams) tea.Cmd {
	gateway, dealID := m.gateway, m.dealID

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		message, err := gateway.RegisterPayment(ctx, dealID, params)

		return paymentDoneMsg{message: message, err: err}
	}
}

func (m LedgerModel) approvePendingCmd(id int64) tea.Cmd {
	gateway := m.gateway

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		return pendingDoneMsg{id: id, err: gateway.ApprovePending(ctx, id)}
	}
}

func (m LedgerModel) rejectPendingCmd(id int64, reason string) tea.Cmd {
	gateway := m.gateway

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		return pendingDoneMsg{id: id, err: gateway.RejectPending(ctx, id, reason)}
	}
}
