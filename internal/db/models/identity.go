package models

import (
	"time"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
)

// Identity is the local record of a directory account.
// It is created on the first successful sync of an account name, refreshed on every
// later sync or login, and never deleted by the sync itself.
type Identity struct {
	// ID is the unique identifier for the identity.
	ID uint64 `gorm:"primaryKey"`
	// AccountName is the directory logon name (sAMAccountName).
	AccountName string `gorm:"uniqueIndex;size:100;not null"`
	// Email is the primary e-mail address.
	Email string `gorm:"size:255"`
	// DisplayName is the full name shown in the directory.
	DisplayName string `gorm:"size:255"`
	// Role is the role derived from group membership, or assigned manually.
	Role rbac.Role `gorm:"type:varchar(20);not null"`
	// Permissions is the full permission matrix of Role at the time it was assigned.
	Permissions rbac.Matrix `gorm:"serializer:json;type:text"`
	// Department is the organizational unit.
	Department string `gorm:"size:255"`
	// Position is the job title.
	Position string `gorm:"size:255"`
	// Active is false when the directory account is disabled.
	Active bool `gorm:"not null"`
	// ManualOverride protects Role and Permissions from being rewritten by a sync.
	// Only an administrator sets it, a sync never does.
	ManualOverride bool `gorm:"not null"`
	// Groups is the snapshot of group distinguished names from the last sync.
	Groups []string `gorm:"serializer:json;type:text"`
	// DN is the distinguished name of the directory entry.
	DN string `gorm:"size:512"`
	// Phone is the telephone number.
	Phone string `gorm:"size:100"`
	// Office is the physical office name.
	Office string `gorm:"size:255"`
	// Company is the company name.
	Company string `gorm:"size:255"`
	// Manager is the distinguished name of the manager.
	Manager string `gorm:"size:512"`
	// LastSyncAt is the time of the last directory sync of this identity.
	LastSyncAt *time.Time
	// LastLoginAt is the time of the last successful login.
	LastLoginAt *time.Time
	// CreatedAt is the timestamp when the identity was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the identity was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Identity model.
func (Identity) TableName() string {
	return "identities"
}

// All returns every model managed by this service, in migration order.
func All() []any {
	return []any{
		&Identity{},
		&Setting{},
	}
}
