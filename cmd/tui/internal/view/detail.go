package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/deal"
	"github.com/melkban/dealdesk/internal/money"
)

type detailState int

const (
	detailClosed detailState = iota
	detailLoading
	detailLoaded
	detailError
)

type detailFlow int

const (
	flowNone detailFlow = iota
	flowConfirmApprove
	flowConfirmDelete
	flowConfirmConsultantApprove
	flowReject
	flowConsultant
)

const detailErrorMessage = "خطا در دریافت جزئیات. لطفاً دوباره تلاش کنید."

// DetailClosedMsg tells the list the modal closed; Refresh asks for a
// reload of the current page.
type DetailClosedMsg struct {
	Refresh bool
}

// DetailModel is the deal-detail modal: closed → loading → loaded, with
// approve/reject/delete and consultant-approval sub-flows.
type DetailModel struct {
	CommonModel
	gateway deal.Gateway
	role    config.Role

	state detailState
	flow  detailFlow

	// dealID tags in-flight requests; responses for any other id are
	// stale and discarded.
	dealID int64

	vm     deal.DetailVM
	errMsg string

	// flash is the latest failed action's message; the modal stays open.
	flash string

	// busy disables every action control while a mutation is in flight.
	busy bool

	confirmForm *huh.Form

	rejectArea textarea.Model

	amountInput textinput.Model
	noteInput   textinput.Model
	formErr     string
}

func NewDetailModel(gateway deal.Gateway, role config.Role) DetailModel {
	reason := textarea.New()
	reason.Placeholder = "دلیل رد را وارد کنید..."
	reason.SetHeight(3)

	amount := textinput.New()
	amount.Placeholder = "مثلاً ۵٬۰۰۰٬۰۰۰ (اختیاری برای تایید)"
	amount.Width = 30

	note := textinput.New()
	note.Placeholder = "توضیحات (اختیاری)"
	note.Width = 50

	return DetailModel{
		gateway:     gateway,
		role:        role,
		state:       detailClosed,
		rejectArea:  reason,
		amountInput: amount,
		noteInput:   note,
	}
}

func (m DetailModel) ShortHelp() string {
	switch m.flow {
	case flowReject:
		return "ctrl+s: ثبت رد | Esc: انصراف"
	case flowConsultant:
		return "Tab: جابجایی | ctrl+a: تایید سهم | ctrl+p: پیشنهاد به مدیر | Esc: انصراف"
	case flowConfirmApprove, flowConfirmDelete, flowConfirmConsultantApprove:
		return "Enter: انتخاب"
	}

	return "a: تایید | x: رد | d: حذف | c: نظر مشاور | g: حساب‌ها | Esc: بستن"
}

// Open shows the modal shell immediately and starts the detail fetch.
func (m DetailModel) Open(id int64) (DetailModel, tea.Cmd) {
	m.state = detailLoading
	m.flow = flowNone
	m.dealID = id
	m.flash = ""
	m.errMsg = ""
	m.busy = false

	return m, m.loadCmd(id)
}

func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.dealID != m.dealID || m.state == detailClosed {
			return m, nil
		}

		if msg.err != nil {
			m.state = detailError
			m.errMsg = detailErrorMessage

			return m, nil
		}

		m.state = detailLoaded
		m.vm = deal.BuildDetail(msg.detail, m.role)

		return m, nil

	case actionDoneMsg:
		if msg.dealID != m.dealID || m.state == detailClosed {
			return m, nil
		}

		m.busy = false

		if msg.err != nil {
			m.flash = msg.err.Error()
			m.flow = flowNone

			return m, nil
		}

		m.state = detailClosed

		return m, closeDetail(true)
	}

	switch m.state {
	case detailLoading, detailError:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = detailClosed
			return m, closeDetail(false)
		}

		return m, nil

	case detailLoaded:
		switch m.flow {
		case flowNone:
			return m.updateActions(msg)
		case flowConfirmApprove, flowConfirmDelete, flowConfirmConsultantApprove:
			return m.updateConfirm(msg)
		case flowReject:
			return m.updateReject(msg)
		case flowConsultant:
			return m.updateConsultant(msg)
		}
	}

	return m, nil
}

func (m DetailModel) allows(action deal.Action) bool {
	for _, a := range m.vm.Actions {
		if a == action {
			return true
		}
	}

	return false
}

func (m DetailModel) updateActions(msg tea.Msg) (DetailModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.busy {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		m.state = detailClosed
		return m, closeDetail(false)

	case "g":
		id := m.dealID
		m.state = detailClosed

		return m, tea.Batch(closeDetail(false), func() tea.Msg { return OpenAccountsMsg{DealID: id} })

	case "a":
		if m.allows(deal.ActionApprove) {
			return m.openConfirm(flowConfirmApprove, "آیا از تایید این معامله مطمئن هستید؟")
		}

	case "x":
		if m.allows(deal.ActionReject) {
			m.flow = flowReject
			m.rejectArea.SetValue("")

			return m, m.rejectArea.Focus()
		}

	case "d":
		if m.allows(deal.ActionDelete) {
			return m.openConfirm(flowConfirmDelete, "آیا از حذف این معامله مطمئن هستید؟")
		}

	case "c":
		if m.allows(deal.ActionConsultantApprove) {
			m.flow = flowConsultant
			m.formErr = ""
			m.amountInput.SetValue("")
			m.noteInput.SetValue("")
			m.noteInput.Blur()

			return m, m.amountInput.Focus()
		}
	}

	return m, nil
}

func (m DetailModel) openConfirm(flow detailFlow, prompt string) (DetailModel, tea.Cmd) {
	m.flow = flow
	m.confirmForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirmed").
				Title(prompt).
				Affirmative("بله").
				Negative("خیر"),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, m.confirmForm.Init()
}

func (m DetailModel) updateConfirm(msg tea.Msg) (DetailModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.flow = flowNone
		m.confirmForm = nil

		return m, nil
	}

	form, cmd := m.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirmForm = f
	}

	if m.confirmForm.State != huh.StateCompleted {
		return m, cmd
	}

	flow := m.flow
	// The form writes results through its own accessors, so the answer
	// must be read back from the form, not from a model field.
	confirmed := m.confirmForm.GetBool("confirmed")
	m.confirmForm = nil

	if !confirmed {
		// Declined: no request, state unchanged.
		m.flow = flowNone
		return m, nil
	}

	switch flow {
	case flowConfirmApprove:
		m.flow = flowNone
		m.busy = true

		return m, m.approveCmd()

	case flowConfirmDelete:
		m.flow = flowNone
		m.busy = true

		return m, m.deleteCmd()

	case flowConfirmConsultantApprove:
		m.flow = flowNone
		m.busy = true

		return m, m.consultantCmd(deal.ApprovalApproved)
	}

	m.flow = flowNone

	return m, nil
}

func (m DetailModel) updateReject(msg tea.Msg) (DetailModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			// Cancel hides the reason area without submitting.
			m.flow = flowNone
			return m, nil

		case "ctrl+s":
			if m.busy {
				return m, nil
			}

			m.busy = true
			m.flow = flowNone

			return m, m.rejectCmd(strings.TrimSpace(m.rejectArea.Value()))
		}
	}

	var cmd tea.Cmd
	m.rejectArea, cmd = m.rejectArea.Update(msg)

	return m, cmd
}

func (m DetailModel) updateConsultant(msg tea.Msg) (DetailModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.flow = flowNone
			return m, nil

		case "tab", "shift+tab":
			if m.amountInput.Focused() {
				m.amountInput.Blur()
				return m, m.noteInput.Focus()
			}

			m.noteInput.Blur()

			return m, m.amountInput.Focus()

		case "ctrl+a":
			if m.busy {
				return m, nil
			}

			// Approving one's share asks for confirmation first.
			return m.openConfirm(flowConfirmConsultantApprove, "آیا سهم کمیسیون خود را تایید می‌کنید؟")

		case "ctrl+p":
			if m.busy {
				return m, nil
			}

			amount, ok := money.ParseAmount(m.amountInput.Value())
			if !ok || amount <= 0 {
				// Blocked client-side: no request leaves the program.
				m.formErr = "لطفاً مبلغ پیشنهادی را وارد کنید."
				return m, nil
			}

			m.formErr = ""
			m.busy = true
			m.flow = flowNone

			return m, m.consultantCmd(deal.ApprovalReview)
		}
	}

	var cmd tea.Cmd

	if m.amountInput.Focused() {
		m.amountInput, cmd = m.amountInput.Update(msg)
	} else {
		m.noteInput, cmd = m.noteInput.Update(msg)
	}

	return m, cmd
}

func (m DetailModel) View() string {
	title := fmt.Sprintf("جزئیات معامله #%s", money.PersianDigits(fmt.Sprintf("%d", m.dealID)))
	header := lipgloss.NewStyle().Bold(true).Render(title)

	switch m.state {
	case detailLoading:
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nدر حال دریافت جزئیات...")

	case detailError:
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.errMsg)

	case detailLoaded:
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.renderLoaded())
	}

	return ""
}

func (m DetailModel) renderLoaded() string {
	var b strings.Builder

	badges := []string{m.vm.StatusLabel}
	if m.vm.TypeName != "" {
		badges = append(badges, m.vm.TypeName)
	}

	b.WriteString(m.vm.Title + "  [" + strings.Join(badges, " | ") + "]\n")

	if m.flash != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.flash) + "\n")
	}

	for _, group := range m.vm.Groups {
		b.WriteString("\n" + m.renderGroup(group))
	}

	b.WriteString("\n" + m.renderApprovals())

	if len(m.vm.Contracts) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("قراردادها") + "\n")

		for _, c := range m.vm.Contracts {
			b.WriteString("  · " + c + "\n")
		}
	}

	if m.vm.Description != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("توضیحات") + "\n  " + m.vm.Description + "\n")
	}

	if m.vm.MyApproval != nil {
		b.WriteString("\n" + m.renderMyApproval())
	}

	switch m.flow {
	case flowConfirmApprove, flowConfirmDelete, flowConfirmConsultantApprove:
		if m.confirmForm != nil {
			b.WriteString("\n" + m.confirmForm.View())
		}

	case flowReject:
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("علت رد معامله") + "\n")
		b.WriteString(m.rejectArea.View() + "\n")

	case flowConsultant:
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("اعلام نظر / تایید کمیسیون") + "\n")
		b.WriteString("مبلغ پیشنهادی (ریال): " + m.amountInput.View() + "\n")
		b.WriteString("توضیحات: " + m.noteInput.View() + "\n")

		if m.formErr != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.formErr) + "\n")
		}

	default:
		b.WriteString("\n" + m.renderActionsBar())
	}

	return b.String()
}

func (m DetailModel) renderGroup(group deal.FactGroup) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(group.Title) + "\n")

	for _, row := range group.Rows {
		b.WriteString(fmt.Sprintf("  %s: %s\n", row.Label, row.Value))
	}

	return b.String()
}

func (m DetailModel) renderApprovals() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("نظر مشاوران") + "\n")

	if len(m.vm.Approvals) == 0 {
		b.WriteString("  هیچ مشاوری برای این معامله تعیین نشده است.\n")
		return b.String()
	}

	for _, row := range m.vm.Approvals {
		status := row.StatusLabel
		if row.Awaiting {
			status = lipgloss.NewStyle().Faint(true).Render(status)
		}

		b.WriteString(fmt.Sprintf("  %s | %s | %s | %s | %s\n",
			row.ConsultantName, status, row.Amount, row.Note, row.RespondedAt))
	}

	return b.String()
}

func (m DetailModel) renderMyApproval() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("نظر / تایید کمیسیون") + "\n")
	b.WriteString("  نظر شما ثبت شده است.\n")
	b.WriteString("  وضعیت: " + m.vm.MyApproval.StatusLabel + "\n")

	if m.vm.MyApproval.Amount != "" {
		b.WriteString("  مبلغ پیشنهادی: " + m.vm.MyApproval.Amount + "\n")
	}

	if m.vm.MyApproval.Note != "" {
		b.WriteString("  توضیحات: " + m.vm.MyApproval.Note + "\n")
	}

	return b.String()
}

var detailActionLabels = map[deal.Action]string{
	deal.ActionViewAccounts:      "g: حساب‌های معامله",
	deal.ActionViewContract:      "مشاهده مبایعه‌نامه",
	deal.ActionGenerateContract:  "ثبت مبایعه‌نامه",
	deal.ActionEdit:              "ویرایش مبایعه",
	deal.ActionApprove:           "a: تایید معامله",
	deal.ActionReject:            "x: رد معامله",
	deal.ActionDelete:            "d: حذف معامله",
	deal.ActionConsultantApprove: "c: اعلام نظر کمیسیون",
}

func (m DetailModel) renderActionsBar() string {
	labels := make([]string, 0, len(m.vm.Actions))

	for _, action := range m.vm.Actions {
		label, ok := detailActionLabels[action]
		if !ok {
			continue
		}

		if m.busy {
			label = lipgloss.NewStyle().Faint(true).Render(label)
		}

		labels = append(labels, label)
	}

	return strings.Join(labels, "   ")
}

// Messages

type detailLoadedMsg struct {
	dealID int64
	detail *deal.Deal
	err    error
}

type actionDoneMsg struct {
	dealID int64
	err    error
}

func closeDetail(refresh bool) tea.Cmd {
	return func() tea.Msg { return DetailClosedMsg{Refresh: refresh} }
}

func (m DetailModel) loadCmd(id int64) tea.Cmd {
	gateway := m.gateway

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		d, err := gateway.GetDeal(ctx, id)

		return detailLoadedMsg{dealID: id, detail: d, err: err}
	}
}

func (m DetailModel) approveCmd() tea.Cmd {
	gateway, id := m.gateway, m.dealID

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		return actionDoneMsg{dealID: id, err: gateway.ApproveDeal(ctx, id)}
	}
}

func (m DetailModel) rejectCmd(reason string) tea.Cmd {
	gateway, id := m.gateway, m.dealID

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		return actionDoneMsg{dealID: id, err: gateway.RejectDeal(ctx, id, reason)}
	}
}

func (m DetailModel) deleteCmd() tea.Cmd {
	gateway, id := m.gateway, m.dealID

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		return actionDoneMsg{dealID: id, err: gateway.DeleteDeal(ctx, id)}
	}
}

// consultantCmd posts the consultant's response. The approve flow omits
// non-positive amounts and empty notes; the counter-proposal flow always
// sends the note field, even when empty.
func (m DetailModel) consultantCmd(status deal.ApprovalStatus) tea.Cmd {
	gateway, id := m.gateway, m.dealID

	submission := deal.ApprovalSubmission{Status: status}
	amount, ok := money.ParseAmount(m.amountInput.Value())
	note := strings.TrimSpace(m.noteInput.Value())

	if status == deal.ApprovalReview {
		submission.SuggestedAmount = &amount
		submission.Note = &note
	} else {
		if ok && amount > 0 {
			submission.SuggestedAmount = &amount
		}

		if note != "" {
			submission.Note = &note
		}
	}

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		return actionDoneMsg{dealID: id, err: gateway.SubmitConsultantApproval(ctx, id, submission)}
	}
}
