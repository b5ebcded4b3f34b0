package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Role is the viewer's effective role for action gating.
type Role string

const (
	RoleOfficeManager Role = "office_manager"
	RoleConsultant    Role = "consultant"
	RolePlainOffice   Role = "plain_office"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Dealdesk"`
	}

	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	}

	Viewer struct {
		OfficeManager bool `envconfig:"ROLE_OFFICE_MANAGER" default:"false"`
		Consultant    bool `envconfig:"ROLE_CONSULTANT" default:"false"`
	}

	CSRF struct {
		CookieName string `envconfig:"CSRF_COOKIE_NAME" default:"csrftoken"`
		Header     string `envconfig:"CSRF_HEADER" default:"X-CSRFToken"`
	}
}

// Role resolves the role flags into a single role. Manager wins when both
// flags are set, matching the backend's precedence.
func (c *Config) Role() Role {
	switch {
	case c.Viewer.OfficeManager:
		return RoleOfficeManager
	case c.Viewer.Consultant:
		return RoleConsultant
	default:
		return RolePlainOffice
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// Endpoints holds the URL templates the backend injects into the client.
// Templates carry an "{id}" placeholder replaced with the target id.
type Endpoints struct {
	Deals              string
	DealDetail         string
	DealApprove        string
	DealReject         string
	DealDelete         string
	ConsultantApproval string
	ContractPDF        string
	GenerateContract   string
	DealAccounts       string
	RegisterPayment    string
	ApprovePendingTx   string
	RejectPendingTx    string
	CSRF               string
}

// DefaultEndpoints returns the templates for a given API base URL.
func DefaultEndpoints(base string) Endpoints {
	base = strings.TrimRight(base, "/")

	return Endpoints{
		Deals:              base + "/api/deals/",
		DealDetail:         base + "/api/deals/{id}/",
		DealApprove:        base + "/api/deals/{id}/approve/",
		DealReject:         base + "/api/deals/{id}/reject/",
		DealDelete:         base + "/api/deals/{id}/",
		ConsultantApproval: base + "/api/deals/{id}/consultant-approval/",
		ContractPDF:        base + "/contracts/{id}/pdf/",
		GenerateContract:   base + "/deals/{id}/contract/new/",
		DealAccounts:       base + "/api/deals/{id}/accounts/",
		RegisterPayment:    base + "/api/deals/{id}/payments/",
		ApprovePendingTx:   base + "/api/payments/pending/{id}/approve/",
		RejectPendingTx:    base + "/api/payments/pending/{id}/reject/",
		CSRF:               base + "/api/csrf/",
	}
}

// Expand substitutes the id placeholder in a template.
func Expand(template string, id int64) string {
	return strings.ReplaceAll(template, "{id}", fmt.Sprintf("%d", id))
}
