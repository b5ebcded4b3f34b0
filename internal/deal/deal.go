// Package deal holds the deal domain: the wire types the backend serves,
// the status/role action policy, and the view models the screens render.
package deal

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a deal.
type Status string

const (
	StatusInit              Status = "init"
	StatusConsultantPending Status = "consultant_pending"
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
)

// statusLabels maps status codes to their display labels. Historical rows
// carry the misspelled "pendding" code; it labels the same as "pending".
var statusLabels = map[Status]string{
	StatusInit:              "تعریف اولیه",
	StatusConsultantPending: "در انتظار تایید مشاور",
	StatusPending:           "در انتظار تایید مدیر",
	"pendding":              "در انتظار تایید مدیر",
	StatusApproved:          "تایید شده",
	StatusRejected:          "رد شده",
}

// Label returns the display label for a status, falling back to the raw
// code when the table has no entry, and to "نامشخص" when the code is empty.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}

	if s == "" {
		return "نامشخص"
	}

	return string(s)
}

// canonical folds the legacy "pendding" code into "pending" so the policy
// never has to know about it.
func (s Status) canonical() Status {
	if s == "pendding" {
		return StatusPending
	}

	return s
}

// ApprovalStatus is the state of one consultant's commission sign-off.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalReview   ApprovalStatus = "review"
	ApprovalApproved ApprovalStatus = "approved"
)

var approvalLabels = map[ApprovalStatus]string{
	ApprovalPending:  "در انتظار",
	ApprovalReview:   "پیشنهاد به مدیر",
	ApprovalApproved: "تایید شده",
}

func (s ApprovalStatus) Label() string {
	if label, ok := approvalLabels[s]; ok {
		return label
	}

	return string(s)
}

// Party is a buyer or seller on a deal.
type Party struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id,omitempty"`
}

// Consultant is a consultant assigned to a deal.
type Consultant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SplitRole is the beneficiary of a commission split.
type SplitRole string

const (
	SplitOffice     SplitRole = "office"
	SplitManager    SplitRole = "manager"
	SplitConsultant SplitRole = "consultant"
	SplitOther      SplitRole = "other"
)

var splitRoleLabels = map[SplitRole]string{
	SplitOffice:     "دفتر",
	SplitManager:    "مدیر",
	SplitConsultant: "مشاور",
	SplitOther:      "سایر",
}

func (r SplitRole) Label() string {
	if label, ok := splitRoleLabels[SplitRole(strings.ToLower(string(r)))]; ok {
		return label
	}

	if r == "" {
		return "نقش"
	}

	return string(r)
}

// Split is a commission allocation to a role.
type Split struct {
	Role   SplitRole `json:"role"`
	Amount *int64    `json:"amount"`
}

// Contract is a sale agreement generated for a deal. A finalized contract
// is immutable from the client's perspective.
type Contract struct {
	ID            int64  `json:"id"`
	TemplateTitle string `json:"template_title"`
	IsFinalized   bool   `json:"is_finalized"`
}

// ConsultantApproval is one consultant's recorded response on their
// commission share. At most one record exists per consultant per deal.
type ConsultantApproval struct {
	Consultant      int64          `json:"consultant"`
	Status          ApprovalStatus `json:"status"`
	StatusDisplay   string         `json:"status_display,omitempty"`
	SuggestedAmount *int64         `json:"suggested_amount,omitempty"`
	Note            string         `json:"note,omitempty"`
	RespondedAt     *time.Time     `json:"responded_at,omitempty"`
}

// HasResponded reports whether the consultant has answered. A missing
// record or a "pending" status both count as not responded.
func (a *ConsultantApproval) HasResponded() bool {
	return a != nil && a.Status != "" && !strings.EqualFold(string(a.Status), string(ApprovalPending))
}

// DealType names the kind of deal (sale, rent, ...).
type DealType struct {
	Name string `json:"name"`
}

// Summary is the list-endpoint shape of a deal.
type Summary struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Status            Status    `json:"status"`
	StatusDisplay     string    `json:"status_display,omitempty"`
	Type              *DealType `json:"type"`
	Creator           string    `json:"creator,omitempty"`
	CreatedAt         string    `json:"created_at,omitempty"`
	PendingMyApproval bool      `json:"pending_my_approval"`
	LatestContractID  *int64    `json:"latest_contract_id"`
}

// Deal is the full detail snapshot. The detail serializer sends the display
// label in "status" and the raw code in "status_code".
type Deal struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	Status               string               `json:"status"`
	StatusCode           Status               `json:"status_code"`
	Type                 *DealType            `json:"type"`
	Creator              string               `json:"creator,omitempty"`
	CreatedAt            string               `json:"created_at,omitempty"`
	Amount               *int64               `json:"amount"`
	BasePrice            *int64               `json:"base_price"`
	Overpayment          *int64               `json:"overpayment"`
	AgreementDate        string               `json:"agreement_date,omitempty"`
	OfficeDate           string               `json:"office_date,omitempty"`
	Date                 string               `json:"date,omitempty"`
	Description          string               `json:"description,omitempty"`
	RejectionReason      string               `json:"rejection_reason,omitempty"`
	Buyers               []Party              `json:"buyers"`
	Sellers              []Party              `json:"sellers"`
	Consultants          []Consultant         `json:"consultants"`
	Splits               []Split              `json:"splits"`
	Contracts            []Contract           `json:"contracts"`
	ConsultantApprovals  []ConsultantApproval `json:"consultant_approvals"`
	MyConsultantApproval *ConsultantApproval  `json:"my_consultant_approval"`
	LatestContractID     *int64               `json:"latest_contract_id"`
}

// ApprovalFor returns the approval record for a consultant, or nil when the
// consultant has not been answered yet.
func (d *Deal) ApprovalFor(consultantID int64) *ConsultantApproval {
	for i := range d.ConsultantApprovals {
		if d.ConsultantApprovals[i].Consultant == consultantID {
			return &d.ConsultantApprovals[i]
		}
	}

	return nil
}

// LatestContract returns the most recent contract, or nil when none exist.
// Contract order is server-supplied and preserved.
func (d *Deal) LatestContract() *Contract {
	if len(d.Contracts) == 0 {
		return nil
	}

	return &d.Contracts[len(d.Contracts)-1]
}

// HasContract reports whether any contract exists for the deal.
func (d *Deal) HasContract() bool {
	return d.LatestContractID != nil || len(d.Contracts) > 0
}

// Page is one page of the deal list.
type Page struct {
	Count   int       `json:"count"`
	Results []Summary `json:"results"`
}

// ApprovalSubmission is the consultant-approval request body. Note is a
// pointer so that the counter-proposal flow can send an explicit empty
// note while the approve flow omits it.
type ApprovalSubmission struct {
	Status          ApprovalStatus `json:"status"`
	SuggestedAmount *int64         `json:"suggested_amount,omitempty"`
	Note            *string        `json:"note,omitempty"`
}
