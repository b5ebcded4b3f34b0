package deal

import (
	"strconv"
	"strings"

	"github.com/melkban/dealdesk/internal/config"
	"github.com/melkban/dealdesk/internal/money"
)

const notRecorded = "ثبت نشده"

// FactRow is one label/value pair in a detail panel.
type FactRow struct {
	Label string
	Value string
}

// FactGroup is a titled panel of fact rows.
type FactGroup struct {
	Title string
	Rows  []FactRow
}

// ApprovalRow is one line of the consultant-approvals table. Every
// assigned consultant gets exactly one row; consultants who have not yet
// responded carry Awaiting instead of their approval fields.
type ApprovalRow struct {
	ConsultantName string
	Awaiting       bool
	StatusLabel    string
	Amount         string
	Note           string
	RespondedAt    string
}

// MyApprovalVM is the read-only summary of the viewing consultant's own
// recorded response.
type MyApprovalVM struct {
	StatusLabel string
	Amount      string
	Note        string
}

// DetailVM is the full view model of the deal-detail modal.
type DetailVM struct {
	ID              int64
	Title           string
	StatusCode      Status
	StatusLabel     string
	TypeName        string
	CreatedAt       string
	Groups          []FactGroup
	Approvals       []ApprovalRow
	Contracts       []string
	Description     string
	RejectionReason string
	Actions         []Action
	MyApproval      *MyApprovalVM
}

func orNotRecorded(v string) string {
	if strings.TrimSpace(v) == "" {
		return notRecorded
	}

	return v
}

func formatOptionalAmount(v *int64) string {
	if v == nil {
		return notRecorded
	}

	return money.FormatAmount(*v)
}

func partyLine(parties []Party) string {
	if len(parties) == 0 {
		return notRecorded
	}

	names := make([]string, 0, len(parties))

	for _, p := range parties {
		if p.Name == "" {
			continue
		}

		if p.NationalID != "" {
			names = append(names, p.Name+" — کد ملی: "+p.NationalID)
			continue
		}

		names = append(names, p.Name)
	}

	if len(names) == 0 {
		return notRecorded
	}

	return strings.Join(names, "، ")
}

// BuildDetail derives the detail view model for the viewer's role.
func BuildDetail(d *Deal, role config.Role) DetailVM {
	title := d.Title
	if title == "" {
		title = "بدون عنوان"
	}

	statusLabel := d.Status
	if statusLabel == "" {
		statusLabel = d.StatusCode.Label()
	}

	typeName := ""
	if d.Type != nil {
		typeName = d.Type.Name
	}

	identity := FactGroup{
		Title: "اطلاعات پایه",
		Rows: []FactRow{
			{Label: "کد معامله", Value: money.PersianDigits(itoa(d.ID))},
			{Label: "وضعیت", Value: orNotRecorded(statusLabel)},
			{Label: "نوع", Value: orNotRecorded(typeName)},
			{Label: "سازنده", Value: orNotRecorded(d.Creator)},
			{Label: "تاریخ ثبت", Value: FormatTimestamp(d.CreatedAt)},
		},
	}

	if d.StatusCode == StatusRejected && d.RejectionReason != "" {
		identity.Rows = append(identity.Rows, FactRow{Label: "علت رد", Value: d.RejectionReason})
	}

	dates := FactGroup{
		Title: "تاریخ‌ها",
		Rows: []FactRow{
			{Label: "تاریخ مبایعه", Value: orNotRecorded(d.AgreementDate)},
			{Label: "تاریخ دفترخانه", Value: orNotRecorded(d.OfficeDate)},
			{Label: "تاریخ", Value: orNotRecorded(d.Date)},
		},
	}

	amounts := FactGroup{
		Title: "مبالغ",
		Rows: []FactRow{
			{Label: "مبلغ معامله", Value: formatOptionalAmount(d.Amount)},
			{Label: "قیمت پایه", Value: formatOptionalAmount(d.BasePrice)},
			{Label: "اضافه پرداخت", Value: formatOptionalAmount(d.Overpayment)},
		},
	}

	consultantNames := make([]string, 0, len(d.Consultants))
	for _, c := range d.Consultants {
		if c.Name != "" {
			consultantNames = append(consultantNames, c.Name)
		}
	}

	consultantsLine := notRecorded
	if len(consultantNames) > 0 {
		consultantsLine = strings.Join(consultantNames, "، ")
	}

	parties := FactGroup{
		Title: "طرفین",
		Rows: []FactRow{
			{Label: "خریداران", Value: partyLine(d.Buyers)},
			{Label: "فروشندگان", Value: partyLine(d.Sellers)},
			{Label: "مشاوران", Value: consultantsLine},
		},
	}

	splitRows := make([]FactRow, 0, len(d.Splits))
	for _, s := range d.Splits {
		splitRows = append(splitRows, FactRow{Label: s.Role.Label(), Value: formatOptionalAmount(s.Amount)})
	}

	if len(splitRows) == 0 {
		splitRows = append(splitRows, FactRow{Label: "کمیسیون", Value: notRecorded})
	}

	splits := FactGroup{Title: "کمیسیون‌ها", Rows: splitRows}

	contracts := make([]string, 0, len(d.Contracts))

	for _, c := range d.Contracts {
		state := "پیش‌نویس"
		if c.IsFinalized {
			state = "نهایی"
		}

		tpl := c.TemplateTitle
		if tpl == "" {
			tpl = "قالب"
		}

		contracts = append(contracts, tpl+" · "+state)
	}

	actions := Permitted(PolicyInput{
		Status:           d.StatusCode,
		Role:             role,
		HasContract:      d.HasContract(),
		AlreadyResponded: d.MyConsultantApproval.HasResponded(),
	})

	var myApproval *MyApprovalVM

	if role == config.RoleConsultant && d.MyConsultantApproval.HasResponded() {
		mine := d.MyConsultantApproval

		label := mine.StatusDisplay
		if label == "" {
			label = mine.Status.Label()
		}

		amount := ""
		if mine.SuggestedAmount != nil {
			amount = money.FormatAmount(*mine.SuggestedAmount) + " ریال"
		}

		myApproval = &MyApprovalVM{
			StatusLabel: label,
			Amount:      amount,
			Note:        strings.TrimSpace(mine.Note),
		}
	}

	return DetailVM{
		ID:              d.ID,
		Title:           title,
		StatusCode:      d.StatusCode,
		StatusLabel:     statusLabel,
		TypeName:        typeName,
		CreatedAt:       FormatTimestamp(d.CreatedAt),
		Groups:          []FactGroup{identity, dates, amounts, parties, splits},
		Approvals:       BuildApprovalRows(d),
		Contracts:       contracts,
		Description:     strings.TrimSpace(d.Description),
		RejectionReason: d.RejectionReason,
		Actions:         actions,
		MyApproval:      myApproval,
	}
}

// BuildApprovalRows enumerates every assigned consultant exactly once,
// joining in their approval record when one exists.
func BuildApprovalRows(d *Deal) []ApprovalRow {
	rows := make([]ApprovalRow, 0, len(d.Consultants))

	for _, c := range d.Consultants {
		name := c.Name
		if name == "" {
			name = "مشاور"
		}

		approval := d.ApprovalFor(c.ID)
		if !approval.HasResponded() {
			rows = append(rows, ApprovalRow{
				ConsultantName: name,
				Awaiting:       true,
				StatusLabel:    "در انتظار نظر",
				Amount:         "—",
				Note:           "—",
				RespondedAt:    "—",
			})

			continue
		}

		label := approval.StatusDisplay
		if label == "" {
			label = approval.Status.Label()
		}

		amount := "—"
		if approval.SuggestedAmount != nil && *approval.SuggestedAmount > 0 {
			amount = money.FormatAmount(*approval.SuggestedAmount) + " ریال"
		}

		note := "—"
		if strings.TrimSpace(approval.Note) != "" {
			note = strings.TrimSpace(approval.Note)
		}

		responded := "—"
		if approval.RespondedAt != nil {
			responded = FormatTimestamp(approval.RespondedAt.Format("2006-01-02T15:04:05"))
		}

		rows = append(rows, ApprovalRow{
			ConsultantName: name,
			StatusLabel:    label,
			Amount:         amount,
			Note:           note,
			RespondedAt:    responded,
		})
	}

	return rows
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
