package view

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/deal"
)

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)

	return cmd()
}

// driveForm feeds each message to step and then runs every follow-up
// command the model returns, the way the bubbletea runtime would. One
// message is fully settled before the next one is sent, so scripted
// keystrokes land on the field that is focused at that point.
func driveForm(t *testing.T, step func(tea.Msg) tea.Cmd, msgs ...tea.Msg) {
	t.Helper()

	for _, msg := range msgs {
		queue := []tea.Cmd{step(msg)}

		for rounds := 0; len(queue) > 0; rounds++ {
			require.Less(t, rounds, 128, "form never settled")

			cmd := queue[0]
			queue = queue[1:]
			if cmd == nil {
				continue
			}

			switch out := cmd().(type) {
			case nil:
			case cursor.BlinkMsg:
				// Cursor-blink ticks re-schedule themselves forever;
				// feeding them back in would never settle.
			case tea.BatchMsg:
				queue = append(queue, out...)
			default:
				queue = append(queue, step(out))
			}
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedDeals(t *testing.T, m DealsModel, gateway *deal.MockGateway, page *deal.Page) DealsModel {
	t.Helper()

	gateway.EXPECT().
		ListDeals(gomock.Any(), gomock.Any()).
		Return(page, nil)

	msg := runCmd(t, m.Init())

	model, _ := m.Update(msg)

	return model.(DealsModel)
}

func TestDealsModel_LoadRendersCards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDealsModel(gateway, config.RoleOfficeManager)

	m = loadedDeals(t, m, gateway, &deal.Page{
		Count: 10,
		Results: []deal.Summary{
			{ID: 1, Title: "برج میلاد", Status: deal.StatusPending},
			{ID: 2, Title: "ویلا", Status: deal.StatusInit},
		},
	})

	assert.Equal(t, dealsStateList, m.state)
	require.Len(t, m.cards, 2)
	assert.Equal(t, "برج میلاد", m.cards[0].Title)
	assert.Equal(t, 10, m.totalCount)
}

func TestDealsModel_StaleResponseDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDealsModel(gateway, config.RolePlainOffice)

	m = loadedDeals(t, m, gateway, &deal.Page{
		Count:   20,
		Results: []deal.Summary{{ID: 1, Title: "اول", Status: deal.StatusInit}},
	})

	// Move to page 2; the old page-1 response must not overwrite it.
	gateway.EXPECT().
		ListDeals(gomock.Any(), deal.Query{Page: 2}).
		Return(&deal.Page{Count: 20, Results: []deal.Summary{{ID: 10, Title: "دوم"}}}, nil)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = model.(DealsModel)
	assert.Equal(t, 2, m.query.Page)

	stale := dealsLoadedMsg{
		query: deal.Query{Page: 1},
		page:  &deal.Page{Count: 20, Results: []deal.Summary{{ID: 99, Title: "کهنه"}}},
	}

	model, _ = m.Update(stale)
	m = model.(DealsModel)
	assert.Equal(t, dealsStateLoading, m.state, "stale pages are ignored")

	model, _ = m.Update(runCmd(t, cmd))
	m = model.(DealsModel)

	require.Len(t, m.cards, 1)
	assert.Equal(t, "دوم", m.cards[0].Title)
}

func TestDealsModel_LoadErrorShowsMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	gateway.EXPECT().
		ListDeals(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	m := NewDealsModel(gateway, config.RolePlainOffice)

	model, _ := m.Update(runCmd(t, m.Init()))
	m = model.(DealsModel)

	assert.Equal(t, listErrorMessage, m.errMsg)
	assert.Empty(t, m.cards)
}

func TestDealsModel_EmptyListState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDealsModel(gateway, config.RolePlainOffice)

	m = loadedDeals(t, m, gateway, &deal.Page{Count: 0, Results: nil})

	assert.Empty(t, m.cards)
	assert.Contains(t, m.View(), emptyListMessage)
	assert.NotContains(t, m.View(), "صفحه", "no pagination for an empty list")
}

func TestDealsModel_MenuIsExclusive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDealsModel(gateway, config.RolePlainOffice)

	m = loadedDeals(t, m, gateway, &deal.Page{
		Count: 2,
		Results: []deal.Summary{
			{ID: 1, Status: deal.StatusInit},
			{ID: 2, Status: deal.StatusInit},
		},
	})

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = model.(DealsModel)
	assert.Equal(t, 0, m.menuFor)

	// Moving the cursor closes the open menu.
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(DealsModel)
	assert.Equal(t, -1, m.menuFor)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = model.(DealsModel)
	assert.Equal(t, 1, m.menuFor)

	// Toggling again closes it.
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = model.(DealsModel)
	assert.Equal(t, -1, m.menuFor)
}

func TestDealsModel_AccountsFromMenu(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDealsModel(gateway, config.RolePlainOffice)

	m = loadedDeals(t, m, gateway, &deal.Page{
		Count:   1,
		Results: []deal.Summary{{ID: 42, Status: deal.StatusInit}},
	})

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = model.(DealsModel)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	msg := runCmd(t, cmd)

	open, ok := msg.(OpenAccountsMsg)
	require.True(t, ok)
	assert.Equal(t, int64(42), open.DealID)
}

func TestDealsModel_FilterFormSendsTypedValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDealsModel(gateway, config.RolePlainOffice)

	m = loadedDeals(t, m, gateway, &deal.Page{
		Count:   20,
		Results: []deal.Summary{{ID: 1, Title: "اول", Status: deal.StatusInit}},
	})

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	m = model.(DealsModel)
	require.Equal(t, dealsStateFilter, m.state)

	// The typed search text and the picked status must reach the
	// request, reset to page 1.
	gateway.EXPECT().
		ListDeals(gomock.Any(), deal.Query{Page: 1, Search: "تهران", Status: deal.StatusPending}).
		Return(&deal.Page{Count: 1, Results: []deal.Summary{{ID: 7, Title: "تهران"}}}, nil)

	step := func(msg tea.Msg) tea.Cmd {
		model, cmd := m.Update(msg)
		m = model.(DealsModel)

		return cmd
	}

	driveForm(t, step,
		keyRunes("تهران"),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	assert.Equal(t, dealsStateList, m.state)
	assert.Equal(t, "تهران", m.query.Search)
	assert.Equal(t, deal.StatusPending, m.query.Status)
	assert.Equal(t, 1, m.query.Page)
	require.Len(t, m.cards, 1)
	assert.Equal(t, "تهران", m.cards[0].Title)
}

func TestDetailModel_StaleResponseDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDetailModel(gateway, config.RoleOfficeManager)

	gateway.EXPECT().
		GetDeal(gomock.Any(), int64(2)).
		Return(&deal.Deal{ID: 2, Title: "فعلی", StatusCode: deal.StatusPending}, nil)

	m, cmd := m.Open(2)

	// A late response for a previously opened deal is dropped.
	m, _ = m.Update(detailLoadedMsg{dealID: 1, detail: &deal.Deal{ID: 1, Title: "قدیمی"}})
	assert.Equal(t, detailLoading, m.state)

	m, _ = m.Update(runCmd(t, cmd))
	assert.Equal(t, detailLoaded, m.state)
	assert.Equal(t, "فعلی", m.vm.Title)
}

func TestDetailModel_ActionFailureKeepsModalOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDetailModel(gateway, config.RoleOfficeManager)

	gateway.EXPECT().
		GetDeal(gomock.Any(), int64(1)).
		Return(&deal.Deal{ID: 1, StatusCode: deal.StatusPending}, nil)

	m, cmd := m.Open(1)
	m, _ = m.Update(runCmd(t, cmd))

	m, _ = m.Update(actionDoneMsg{dealID: 1, err: errors.New("این معامله قبلاً تایید شده است.")})

	assert.Equal(t, detailLoaded, m.state)
	assert.Equal(t, "این معامله قبلاً تایید شده است.", m.flash)
	assert.False(t, m.busy)
}

func TestDetailModel_ActionSuccessClosesWithRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDetailModel(gateway, config.RoleOfficeManager)

	gateway.EXPECT().
		GetDeal(gomock.Any(), int64(1)).
		Return(&deal.Deal{ID: 1, StatusCode: deal.StatusPending}, nil)

	m, cmd := m.Open(1)
	m, _ = m.Update(runCmd(t, cmd))

	m, cmd = m.Update(actionDoneMsg{dealID: 1})

	assert.Equal(t, detailClosed, m.state)

	closed, ok := runCmd(t, cmd).(DetailClosedMsg)
	require.True(t, ok)
	assert.True(t, closed.Refresh)
}

func TestDetailModel_CounterProposalNeedsAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDetailModel(gateway, config.RoleConsultant)

	gateway.EXPECT().
		GetDeal(gomock.Any(), int64(5)).
		Return(&deal.Deal{
			ID:          5,
			StatusCode:  deal.StatusConsultantPending,
			Consultants: []deal.Consultant{{ID: 2, Name: "مشاور"}},
		}, nil)

	m, cmd := m.Open(5)
	m, _ = m.Update(runCmd(t, cmd))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.Equal(t, flowConsultant, m.flow)

	// No amount entered: blocked client-side, no gateway call happens.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})

	assert.Nil(t, cmd)
	assert.Equal(t, "لطفاً مبلغ پیشنهادی را وارد کنید.", m.formErr)
	assert.False(t, m.busy)
}

func TestDetailModel_ApproveConfirmedSendsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDetailModel(gateway, config.RoleOfficeManager)

	gateway.EXPECT().
		GetDeal(gomock.Any(), int64(1)).
		Return(&deal.Deal{ID: 1, StatusCode: deal.StatusPending}, nil)

	m, cmd := m.Open(1)
	m, _ = m.Update(runCmd(t, cmd))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	require.Equal(t, flowConfirmApprove, m.flow)

	gateway.EXPECT().
		ApproveDeal(gomock.Any(), int64(1)).
		Return(nil)

	step := func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)

		return cmd
	}

	// Answering yes submits the confirmation and posts the approval.
	driveForm(t, step, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	assert.Equal(t, detailClosed, m.state)
}

func TestDetailModel_ConfirmDeclinedSendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := deal.NewMockGateway(ctrl)
	m := NewDetailModel(gateway, config.RoleOfficeManager)

	gateway.EXPECT().
		GetDeal(gomock.Any(), int64(1)).
		Return(&deal.Deal{ID: 1, StatusCode: deal.StatusPending}, nil)

	m, cmd := m.Open(1)
	m, _ = m.Update(runCmd(t, cmd))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	require.Equal(t, flowConfirmApprove, m.flow)

	step := func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)

		return cmd
	}

	// Answering no drops the flow without touching the gateway.
	driveForm(t, step, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.Equal(t, detailLoaded, m.state)
	assert.Equal(t, flowNone, m.flow)
	assert.False(t, m.busy)
}
