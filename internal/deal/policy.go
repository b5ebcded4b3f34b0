package deal

import (
	"github.com/melkban/dealdesk/internal/config"
)

// Action is a UI affordance a viewer may be offered on a deal.
type Action string

const (
	ActionViewAccounts      Action = "view_accounts"
	ActionViewContract      Action = "view_contract"
	ActionGenerateContract  Action = "generate_contract"
	ActionEdit              Action = "edit"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionDelete            Action = "delete"
	ActionConsultantApprove Action = "consultant_approve"
	ActionConsultantCounter Action = "consultant_counter"
)

// PolicyInput is everything the action policy looks at.
type PolicyInput struct {
	Status Status
	Role   config.Role

	// HasContract is true when the deal has any contract.
	HasContract bool

	// AlreadyResponded is true when the viewing consultant has already
	// recorded an approval or counter-proposal on this deal.
	AlreadyResponded bool
}

// Permitted maps a deal's status and the viewer's role to the ordered set
// of permitted actions. It is total and side-effect free; render layers
// call it instead of branching on raw status strings.
func Permitted(in PolicyInput) []Action {
	status := in.Status.canonical()
	consultant := in.Role == config.RoleConsultant

	actions := []Action{ActionViewAccounts}

	if in.HasContract {
		actions = append(actions, ActionViewContract)
	} else if !consultant {
		actions = append(actions, ActionGenerateContract)
	}

	if !consultant && status != StatusApproved {
		actions = append(actions, ActionEdit)
	}

	if status == StatusPending && in.Role == config.RoleOfficeManager {
		actions = append(actions, ActionApprove, ActionReject)
	}

	if status == StatusInit && !consultant {
		actions = append(actions, ActionDelete)
	}

	if status == StatusConsultantPending && consultant && !in.AlreadyResponded {
		actions = append(actions, ActionConsultantApprove, ActionConsultantCounter)
	}

	return actions
}

// Allows reports whether a specific action is in the permitted set.
func Allows(in PolicyInput, action Action) bool {
	for _, a := range Permitted(in) {
		if a == action {
			return true
		}
	}

	return false
}
