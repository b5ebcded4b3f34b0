package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/deal"
	"github.com/melkban/dealdesk/internal/money"
)

type dealsState int

const (
	dealsStateLoading dealsState = iota
	dealsStateList
	dealsStateFilter
	dealsStateDetail
)

const emptyListMessage = "هیچ معامله‌ای برای دفتر شما ثبت نشده است."
const listErrorMessage = "خطا در دریافت اطلاعات معاملات. لطفاً دوباره تلاش کنید."

var actionLabels = map[deal.Action]string{
	deal.ActionViewAccounts:     "حساب‌های معامله",
	deal.ActionViewContract:     "مشاهده مبایعه‌نامه",
	deal.ActionGenerateContract: "ثبت مبایعه‌نامه",
	deal.ActionEdit:             "ویرایش معامله",
}

// DealsModel is the deal-list screen: pagination, filters, per-card menus
// and the detail overlay.
type DealsModel struct {
	CommonModel
	gateway deal.Gateway
	role    config.Role

	state      dealsState
	query      deal.Query
	cards      []deal.Card
	totalCount int
	cursor     int

	// menuFor is the index of the card whose overflow menu is open, -1
	// when none. Opening one closes any other.
	menuFor int

	errMsg string

	detail DetailModel

	filterForm *huh.Form
}

func NewDealsModel(gateway deal.Gateway, role config.Role) DealsModel {
	return DealsModel{
		gateway: gateway,
		role:    role,
		state:   dealsStateLoading,
		query:   deal.Query{Page: 1},
		menuFor: -1,
		detail:  NewDetailModel(gateway, role),
	}
}

func (m DealsModel) Title() string { return "معاملات" }

func (m DealsModel) ShortHelp() string {
	switch m.state {
	case dealsStateList:
		return "↑/↓: انتخاب | Enter: جزئیات | ←/→: صفحه | m: منو | f: فیلتر | r: بازخوانی | q: خروج"
	case dealsStateFilter:
		return "Enter: اعمال | Esc: انصراف"
	case dealsStateDetail:
		return m.detail.ShortHelp()
	}

	return ""
}

func (m DealsModel) Init() tea.Cmd {
	return m.loadCmd(m.query)
}

func (m DealsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dealsLoadedMsg:
		// A response for a query that is no longer current is stale.
		if msg.query != m.query {
			return m, nil
		}

		if m.state == dealsStateLoading {
			m.state = dealsStateList
		}

		if msg.err != nil {
			m.errMsg = listErrorMessage
			m.cards = nil
			m.totalCount = 0

			return m, nil
		}

		m.errMsg = ""
		m.totalCount = msg.page.Count
		m.cards = deal.BuildCards(msg.page.Results, m.role)
		m.menuFor = -1

		if m.cursor >= len(m.cards) {
			m.cursor = 0
		}

		return m, nil

	case DetailClosedMsg:
		m.state = dealsStateList

		if msg.Refresh {
			return m, m.loadCmd(m.query)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	switch m.state {
	case dealsStateList, dealsStateLoading:
		return m.updateList(msg)
	case dealsStateFilter:
		return m.updateFilter(msg)
	case dealsStateDetail:
		return m.updateDetail(msg)
	}

	return m, nil
}

func (m DealsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	totalPages := deal.TotalPages(m.totalCount)

	switch keyMsg.String() {
	case "esc":
		if m.menuFor >= 0 {
			m.menuFor = -1
			return m, nil
		}

		return m, Back

	case "up", "k":
		m.menuFor = -1
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		m.menuFor = -1
		if m.cursor < len(m.cards)-1 {
			m.cursor++
		}

	case "left", "h":
		if m.query.Page > 1 {
			return m.gotoPage(m.query.Page - 1)
		}

	case "right", "l":
		if m.query.Page < totalPages {
			return m.gotoPage(m.query.Page + 1)
		}

	case "enter", " ":
		if m.cursor < len(m.cards) {
			m.state = dealsStateDetail
			m.menuFor = -1

			var cmd tea.Cmd
			m.detail, cmd = m.detail.Open(m.cards[m.cursor].ID)

			return m, cmd
		}

	case "m":
		// Exclusive open: any other open menu closes first.
		if m.menuFor == m.cursor {
			m.menuFor = -1
		} else if m.cursor < len(m.cards) {
			m.menuFor = m.cursor
		}

	case "a":
		if m.menuFor >= 0 && m.menuFor < len(m.cards) {
			id := m.cards[m.menuFor].ID
			m.menuFor = -1

			return m, func() tea.Msg { return OpenAccountsMsg{DealID: id} }
		}

	case "f":
		return m.openFilterForm()

	case "r":
		m.state = dealsStateLoading
		return m, m.loadCmd(m.query)

	default:
		// Any other interaction dismisses an open menu.
		m.menuFor = -1
	}

	return m, nil
}

func (m DealsModel) gotoPage(page int) (tea.Model, tea.Cmd) {
	m.query = m.query.WithPage(page)
	m.state = dealsStateLoading
	m.menuFor = -1

	return m, m.loadCmd(m.query)
}

func (m DealsModel) openFilterForm() (tea.Model, tea.Cmd) {
	// Seed the form with the active filters. The form keeps its own
	// accessors, so results are read back with GetString on completion.
	search := m.query.Search
	status := string(m.query.Status)

	m.filterForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("search").
				Title("جستجو").
				Value(&search),

			huh.NewSelect[string]().
				Key("status").
				Title("وضعیت").
				Options(
					huh.NewOption("همه", ""),
					huh.NewOption(deal.StatusInit.Label(), string(deal.StatusInit)),
					huh.NewOption(deal.StatusConsultantPending.Label(), string(deal.StatusConsultantPending)),
					huh.NewOption(deal.StatusPending.Label(), string(deal.StatusPending)),
					huh.NewOption(deal.StatusApproved.Label(), string(deal.StatusApproved)),
					huh.NewOption(deal.StatusRejected.Label(), string(deal.StatusRejected)),
				).
				Value(&status),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = dealsStateFilter

	return m, m.filterForm.Init()
}

func (m DealsModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dealsStateList
			m.filterForm = nil

			return m, nil
		}
	}

	form, cmd := m.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.filterForm = f
	}

	if m.filterForm.State != huh.StateCompleted {
		return m, cmd
	}

	// A filter change always restarts from the first page.
	m.query = m.query.WithFilters(
		m.filterForm.GetString("search"),
		deal.Status(m.filterForm.GetString("status")),
	)
	m.filterForm = nil
	m.state = dealsStateLoading
	m.cursor = 0

	return m, m.loadCmd(m.query)
}

func (m DealsModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)

	return m, cmd
}

func (m DealsModel) View() string {
	switch m.state {
	case dealsStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("در حال دریافت اطلاعات...")

	case dealsStateFilter:
		if m.filterForm == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.filterForm.View())

	case dealsStateDetail:
		return m.detail.View()
	}

	if m.errMsg != "" {
		return lipgloss.NewStyle().Padding(2).Render(m.errMsg)
	}

	if len(m.cards) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(emptyListMessage)
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("معاملات — تعداد کل: %s", money.PersianDigits(fmt.Sprintf("%d", m.totalCount))),
	))
	b.WriteString("\n\n")

	for i, card := range m.cards {
		b.WriteString(m.renderCard(i, card))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderPagination())

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m DealsModel) renderCard(index int, card deal.Card) string {
	badges := make([]string, 0, 3)

	if card.PendingMyApproval {
		badges = append(badges, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("منتظر نظر شما"))
	}

	badges = append(badges, card.TypeName, card.StatusLabel)

	if card.HasContract {
		badges = append(badges, "✓ مبایعه‌نامه")
	}

	line := fmt.Sprintf("%s  [%s]", card.Title, strings.Join(badges, " | "))
	meta := fmt.Sprintf("تاریخ ساخت: %s  توسط: %s", card.CreatedAt, card.Creator)

	if index == m.cursor {
		line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + line)
	} else {
		line = "  " + line
	}

	out := line + "\n    " + lipgloss.NewStyle().Faint(true).Render(meta)

	if index == m.menuFor {
		entries := make([]string, 0, len(card.Menu))
		for _, action := range card.Menu {
			entries = append(entries, "· "+actionLabels[action])
		}

		menu := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Render(strings.Join(entries, "\n"))

		out += "\n" + menu
	}

	return out
}

func (m DealsModel) renderPagination() string {
	totalPages := deal.TotalPages(m.totalCount)
	if totalPages <= 1 {
		return ""
	}

	parts := make([]string, 0, 7)

	prev := "قبلی"
	if m.query.Page == 1 {
		prev = lipgloss.NewStyle().Faint(true).Render(prev)
	}

	parts = append(parts, prev)

	for _, p := range deal.PageWindow(m.query.Page, totalPages) {
		label := money.PersianDigits(fmt.Sprintf("%d", p))
		if p == m.query.Page {
			label = lipgloss.NewStyle().Reverse(true).Render(label)
		}

		parts = append(parts, label)
	}

	next := "بعدی"
	if m.query.Page == totalPages {
		next = lipgloss.NewStyle().Faint(true).Render(next)
	}

	parts = append(parts, next)

	info := fmt.Sprintf("صفحه %s از %s",
		money.PersianDigits(fmt.Sprintf("%d", m.query.Page)),
		money.PersianDigits(fmt.Sprintf("%d", totalPages)),
	)

	return info + "\n" + strings.Join(parts, "  ")
}

// Messages

type dealsLoadedMsg struct {
	query deal.Query
	page  *deal.Page
	err   error
}

func (m DealsModel) loadCmd(q deal.Query) tea.Cmd {
	gateway := m.gateway

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		page, err := gateway.ListDeals(ctx, q)

		return dealsLoadedMsg{query: q, page: page, err: err}
	}
}
