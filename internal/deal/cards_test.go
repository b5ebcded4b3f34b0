package deal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/deal"
)

func TestBuildCard(t *testing.T) {
	type testCase struct {
		name    string
		summary deal.Summary
		role    config.Role
		check   func(t *testing.T, card deal.Card)
	}

	contractID := int64(7)

	tests := []testCase{
		{
			name: "ServerLabelPreferred",
			summary: deal.Summary{
				ID:            1,
				Title:         "آپارتمان ولیعصر",
				Status:        deal.StatusPending,
				StatusDisplay: "در انتظار تایید مدیر",
				Type:          &deal.DealType{Name: "فروش"},
				Creator:       "رضا محمدی",
			},
			role: config.RoleOfficeManager,
			check: func(t *testing.T, card deal.Card) {
				assert.Equal(t, "در انتظار تایید مدیر", card.StatusLabel)
				assert.Equal(t, "فروش", card.TypeName)
				assert.Equal(t, "رضا محمدی", card.Creator)
			},
		},
		{
			name: "FallbackLabels",
			summary: deal.Summary{
				ID:     2,
				Status: deal.StatusApproved,
			},
			role: config.RolePlainOffice,
			check: func(t *testing.T, card deal.Card) {
				assert.Equal(t, "بدون عنوان", card.Title)
				assert.Equal(t, "تایید شده", card.StatusLabel)
				assert.Equal(t, "نامشخص", card.TypeName)
				assert.Equal(t, "—", card.Creator)
			},
		},
		{
			name: "UnknownStatusShowsRawCode",
			summary: deal.Summary{
				ID:     3,
				Status: deal.Status("archived"),
			},
			role: config.RolePlainOffice,
			check: func(t *testing.T, card deal.Card) {
				assert.Equal(t, "archived", card.StatusLabel)
			},
		},
		{
			name: "MenuWithContract",
			summary: deal.Summary{
				ID:               4,
				Status:           deal.StatusPending,
				LatestContractID: &contractID,
			},
			role: config.RoleOfficeManager,
			check: func(t *testing.T, card deal.Card) {
				assert.True(t, card.HasContract)
				assert.Equal(t, []deal.Action{
					deal.ActionViewAccounts,
					deal.ActionViewContract,
					deal.ActionEdit,
				}, card.Menu)
			},
		},
		{
			name: "MenuForConsultantWithoutContract",
			summary: deal.Summary{
				ID:     5,
				Status: deal.StatusConsultantPending,
			},
			role: config.RoleConsultant,
			check: func(t *testing.T, card deal.Card) {
				assert.Equal(t, []deal.Action{deal.ActionViewAccounts}, card.Menu)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, deal.BuildCard(tt.summary, tt.role))
		})
	}
}

func TestBuildCards_PreservesOrder(t *testing.T) {
	summaries := []deal.Summary{
		{ID: 9, Status: deal.StatusInit},
		{ID: 3, Status: deal.StatusPending},
		{ID: 12, Status: deal.StatusApproved},
	}

	cards := deal.BuildCards(summaries, config.RolePlainOffice)

	require.Len(t, cards, 3)
	assert.Equal(t, int64(9), cards[0].ID)
	assert.Equal(t, int64(3), cards[1].ID)
	assert.Equal(t, int64(12), cards[2].ID)
}
