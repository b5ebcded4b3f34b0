package deal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/deal"
)

func TestBuildDetail(t *testing.T) {
	amount := int64(5000000)

	d := &deal.Deal{
		ID:         12,
		Title:      "ویلای لواسان",
		Status:     "در انتظار تایید مدیر",
		StatusCode: deal.StatusPending,
		Type:       &deal.DealType{Name: "فروش"},
		Creator:    "سارا احمدی",
		Amount:     &amount,
		Buyers: []deal.Party{
			{Name: "علی رضایی", NationalID: "0012345678"},
			{Name: "مینا کریمی"},
		},
		Sellers: []deal.Party{{Name: "حسین مرادی"}},
		Consultants: []deal.Consultant{
			{ID: 2, Name: "نیما صادقی"},
			{ID: 5, Name: "لیلا حسینی"},
		},
		Splits: []deal.Split{
			{Role: deal.SplitOffice, Amount: &amount},
			{Role: deal.SplitConsultant, Amount: nil},
		},
		Contracts: []deal.Contract{
			{ID: 1, TemplateTitle: "مبایعه‌نامه", IsFinalized: true},
		},
		ConsultantApprovals: []deal.ConsultantApproval{
			{Consultant: 2, Status: deal.ApprovalApproved},
		},
	}

	vm := deal.BuildDetail(d, config.RoleOfficeManager)

	assert.Equal(t, "ویلای لواسان", vm.Title)
	assert.Equal(t, "در انتظار تایید مدیر", vm.StatusLabel)
	require.Len(t, vm.Groups, 5)

	identity := vm.Groups[0]
	assert.Equal(t, "اطلاعات پایه", identity.Title)

	parties := vm.Groups[3]
	assert.Equal(t, "علی رضایی — کد ملی: 0012345678، مینا کریمی", parties.Rows[0].Value)
	assert.Equal(t, "حسین مرادی", parties.Rows[1].Value)

	amounts := vm.Groups[2]
	assert.Equal(t, "۵٬۰۰۰٬۰۰۰", amounts.Rows[0].Value)
	assert.Equal(t, "ثبت نشده", amounts.Rows[1].Value)

	require.Len(t, vm.Contracts, 1)
	assert.Equal(t, "مبایعه‌نامه · نهایی", vm.Contracts[0])

	assert.Contains(t, vm.Actions, deal.ActionApprove)
	assert.Contains(t, vm.Actions, deal.ActionReject)
	assert.Nil(t, vm.MyApproval)
}

func TestBuildDetail_RejectedShowsReason(t *testing.T) {
	d := &deal.Deal{
		ID:              3,
		StatusCode:      deal.StatusRejected,
		RejectionReason: "مغایرت قیمت",
	}

	vm := deal.BuildDetail(d, config.RolePlainOffice)

	identity := vm.Groups[0]
	last := identity.Rows[len(identity.Rows)-1]

	assert.Equal(t, "علت رد", last.Label)
	assert.Equal(t, "مغایرت قیمت", last.Value)
	assert.Equal(t, "مغایرت قیمت", vm.RejectionReason)
}

func TestBuildDetail_ConsultantOwnResponse(t *testing.T) {
	suggested := int64(4000000)

	d := &deal.Deal{
		ID:         8,
		StatusCode: deal.StatusConsultantPending,
		Consultants: []deal.Consultant{
			{ID: 2, Name: "نیما صادقی"},
		},
		MyConsultantApproval: &deal.ConsultantApproval{
			Consultant:      2,
			Status:          deal.ApprovalReview,
			SuggestedAmount: &suggested,
			Note:            "با توجه به شرایط بازار",
		},
	}

	vm := deal.BuildDetail(d, config.RoleConsultant)

	require.NotNil(t, vm.MyApproval)
	assert.Equal(t, "پیشنهاد به مدیر", vm.MyApproval.StatusLabel)
	assert.Equal(t, "۴٬۰۰۰٬۰۰۰ ریال", vm.MyApproval.Amount)
	assert.Equal(t, "با توجه به شرایط بازار", vm.MyApproval.Note)

	assert.NotContains(t, vm.Actions, deal.ActionConsultantApprove)
	assert.NotContains(t, vm.Actions, deal.ActionConsultantCounter)
}

func TestBuildApprovalRows(t *testing.T) {
	suggested := int64(2500000)

	d := &deal.Deal{
		Consultants: []deal.Consultant{
			{ID: 1, Name: "نیما صادقی"},
			{ID: 2, Name: "لیلا حسینی"},
			{ID: 3},
		},
		ConsultantApprovals: []deal.ConsultantApproval{
			{Consultant: 1, Status: deal.ApprovalApproved},
			{Consultant: 2, Status: deal.ApprovalReview, SuggestedAmount: &suggested, Note: "پیشنهاد"},
		},
	}

	rows := deal.BuildApprovalRows(d)

	require.Len(t, rows, 3, "every assigned consultant appears exactly once")

	assert.False(t, rows[0].Awaiting)
	assert.Equal(t, "تایید شده", rows[0].StatusLabel)
	assert.Equal(t, "—", rows[0].Amount)

	assert.Equal(t, "۲٬۵۰۰٬۰۰۰ ریال", rows[1].Amount)
	assert.Equal(t, "پیشنهاد", rows[1].Note)

	assert.True(t, rows[2].Awaiting)
	assert.Equal(t, "مشاور", rows[2].ConsultantName)
	assert.Equal(t, "در انتظار نظر", rows[2].StatusLabel)
}

func TestDeal_HasContract(t *testing.T) {
	id := int64(4)

	assert.False(t, (&deal.Deal{}).HasContract())
	assert.True(t, (&deal.Deal{LatestContractID: &id}).HasContract())
	assert.True(t, (&deal.Deal{Contracts: []deal.Contract{{ID: 4}}}).HasContract())
}

func TestConsultantApproval_HasResponded(t *testing.T) {
	var missing *deal.ConsultantApproval

	assert.False(t, missing.HasResponded())
	assert.False(t, (&deal.ConsultantApproval{Status: deal.ApprovalPending}).HasResponded())
	assert.True(t, (&deal.ConsultantApproval{Status: deal.ApprovalApproved}).HasResponded())
	assert.True(t, (&deal.ConsultantApproval{Status: deal.ApprovalReview}).HasResponded())
}
