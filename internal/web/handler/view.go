package handler

import (
	"time"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
)

// IdentityView is the API representation of an identity.
type IdentityView struct {
	ID             uint64      `json:"id"`
	AccountName    string      `json:"account_name"`
	Email          string      `json:"email"`
	DisplayName    string      `json:"display_name"`
	Role           rbac.Role   `json:"role"`
	Permissions    rbac.Matrix `json:"permissions"`
	Department     string      `json:"department"`
	Position       string      `json:"position"`
	Active         bool        `json:"active"`
	ManualOverride bool        `json:"manual_override"`
	Groups         []string    `json:"groups"`
	Phone          string      `json:"phone,omitempty"`
	Office         string      `json:"office,omitempty"`
	Company        string      `json:"company,omitempty"`
	Manager        string      `json:"manager,omitempty"`
	LastSyncAt     *time.Time  `json:"last_sync_at,omitempty"`
	LastLoginAt    *time.Time  `json:"last_login_at,omitempty"`
}

// NewIdentityView converts a stored identity.
func NewIdentityView(i *models.Identity) IdentityView {
	groups := i.Groups
	if groups == nil {
		groups = []string{}
	}

	return IdentityView{
		ID:             i.ID,
		AccountName:    i.AccountName,
		Email:          i.Email,
		DisplayName:    i.DisplayName,
		Role:           i.Role,
		Permissions:    i.Permissions,
		Department:     i.Department,
		Position:       i.Position,
		Active:         i.Active,
		ManualOverride: i.ManualOverride,
		Groups:         groups,
		Phone:          i.Phone,
		Office:         i.Office,
		Company:        i.Company,
		Manager:        i.Manager,
		LastSyncAt:     i.LastSyncAt,
		LastLoginAt:    i.LastLoginAt,
	}
}
