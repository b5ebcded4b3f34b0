package deal

import (
	"github.com/melkban/dealdesk/internal/config"
)

// Card is the presentation-independent view model of one deal summary.
type Card struct {
	ID                int64
	Title             string
	StatusCode        Status
	StatusLabel       string
	TypeName          string
	Creator           string
	CreatedAt         string
	PendingMyApproval bool
	HasContract       bool

	// Menu holds the overflow-menu entries the viewer is allowed to see,
	// in render order.
	Menu []Action
}

// BuildCard derives the card view model for a deal summary.
func BuildCard(s Summary, role config.Role) Card {
	label := s.StatusDisplay
	if label == "" {
		label = s.Status.Label()
	}

	typeName := "نامشخص"
	if s.Type != nil && s.Type.Name != "" {
		typeName = s.Type.Name
	}

	creator := s.Creator
	if creator == "" {
		creator = "—"
	}

	title := s.Title
	if title == "" {
		title = "بدون عنوان"
	}

	hasContract := s.LatestContractID != nil

	permitted := Permitted(PolicyInput{
		Status:      s.Status,
		Role:        role,
		HasContract: hasContract,
	})

	menu := make([]Action, 0, 3)

	for _, a := range permitted {
		switch a {
		case ActionViewAccounts, ActionViewContract, ActionGenerateContract, ActionEdit:
			menu = append(menu, a)
		}
	}

	return Card{
		ID:                s.ID,
		Title:             title,
		StatusCode:        s.Status,
		StatusLabel:       label,
		TypeName:          typeName,
		Creator:           creator,
		CreatedAt:         FormatTimestamp(s.CreatedAt),
		PendingMyApproval: s.PendingMyApproval,
		HasContract:       hasContract,
		Menu:              menu,
	}
}

// BuildCards derives card view models for a page of summaries, preserving
// server order.
func BuildCards(summaries []Summary, role config.Role) []Card {
	cards := make([]Card, len(summaries))
	for i, s := range summaries {
		cards[i] = BuildCard(s, role)
	}

	return cards
}
