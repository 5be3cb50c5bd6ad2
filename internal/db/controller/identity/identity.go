// Package identity provides the store operations on synchronized directory identities.
package identity

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
)

const (
	accountNameQueryPattern = "account_name = ?"
)

var (
	// ErrIdentityNotFound is returned when no identity matches.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrAccountNameEmpty is returned when an account name is required but empty.
	ErrAccountNameEmpty = errors.New("identity account name cannot be empty")
	// ErrIdentityAlreadyExists is returned when creating an identity whose account name is taken.
	ErrIdentityAlreadyExists = errors.New("identity already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves an identity by its account name.
func Get(db *gorm.DB, accountName string) (*models.Identity, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if accountName == "" {
		return nil, ErrAccountNameEmpty
	}

	var identity models.Identity
	result := db.Where(accountNameQueryPattern, accountName).First(&identity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, result.Error
	}

	return &identity, nil
}

// GetByID retrieves an identity by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Identity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var identity models.Identity
	result := db.First(&identity, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, result.Error
	}

	return &identity, nil
}

// List retrieves all identities ordered by account name.
func List(db *gorm.DB) ([]models.Identity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var identities []models.Identity
	result := db.Order("account_name").Find(&identities)
	if result.Error != nil {
		return nil, result.Error
	}

	return identities, nil
}

// Create inserts a new identity.
func Create(db *gorm.DB, identity *models.Identity) error {
	if db == nil {
		return ErrDBNil
	}
	if identity.AccountName == "" {
		return ErrAccountNameEmpty
	}

	var existing models.Identity
	result := db.Where(accountNameQueryPattern, identity.AccountName).First(&existing)
	if result.Error == nil {
		return ErrIdentityAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(identity).Error
}

// Save updates all columns of an existing identity.
func Save(db *gorm.DB, identity *models.Identity) error {
	if db == nil {
		return ErrDBNil
	}
	if identity.ID == 0 {
		return ErrIdentityNotFound
	}

	return db.Save(identity).Error
}

// TouchLastLogin stamps the last login time of an identity.
func TouchLastLogin(db *gorm.DB, id uint64, at time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Identity{}).Where("id = ?", id).Update("last_login_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

// SetOverride assigns role manually. The identity keeps role and its permission matrix
// until the override is cleared, whatever its directory groups say.
func SetOverride(db *gorm.DB, accountName string, role rbac.Role) (*models.Identity, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", rbac.ErrUnknownRole, role)
	}

	identity, err := Get(db, accountName)
	if err != nil {
		return nil, err
	}

	identity.ManualOverride = true
	identity.Role = role
	identity.Permissions = rbac.MatrixFor(role)

	if err = db.Save(identity).Error; err != nil {
		return nil, err
	}

	return identity, nil
}

// ClearOverride hands role management back to the directory sync.
// Role and permissions stay as they are until the next sync of the identity.
func ClearOverride(db *gorm.DB, accountName string) (*models.Identity, error) {
	identity, err := Get(db, accountName)
	if err != nil {
		return nil, err
	}

	identity.ManualOverride = false

	if err = db.Save(identity).Error; err != nil {
		return nil, err
	}

	return identity, nil
}
