package deal

import (
	"context"
)

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=deal

// Gateway is the backend surface the deal screens depend on.
type Gateway interface {
	ListDeals(ctx context.Context, q Query) (*Page, error)
	GetDeal(ctx context.Context, id int64) (*Deal, error)
	ApproveDeal(ctx context.Context, id int64) error
	RejectDeal(ctx context.Context, id int64, reason string) error
	DeleteDeal(ctx context.Context, id int64) error
	SubmitConsultantApproval(ctx context.Context, id int64, submission ApprovalSubmission) error
}
