package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/auth"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/directory"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/reconcile"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}

// Authenticator logs users in. *auth.Service implements it.
type Authenticator interface {
	Login(accountName, password string) (*auth.LoginResult, error)
}

// FullSync runs and reports full directory syncs. *reconcile.Runner implements it.
type FullSync interface {
	Run() (*reconcile.Report, error)
	LastReport() (*reconcile.Report, error)
}

// AccountSync syncs a single account. *reconcile.Engine implements it.
type AccountSync interface {
	SyncAccount(accountName string) (*models.Identity, error)
}

// DirectoryStatus reports the state of the directory connection. *directory.Manager implements it.
type DirectoryStatus interface {
	Status() directory.Status
}

// Deps holds everything the handlers need. Every field is required.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Issuer    *auth.Issuer
	Login     Authenticator
	FullSync  FullSync
	Accounts  AccountSync
	Directory DirectoryStatus
}

// Validate reports the first missing dependency.
func (d *Deps) Validate() error {
	switch {
	case d == nil:
		return ErrNilDeps
	case d.Config == nil, d.DB == nil, d.Issuer == nil:
		return ErrNilDeps
	case d.Login == nil, d.FullSync == nil, d.Accounts == nil, d.Directory == nil:
		return ErrNilDeps
	}

	return nil
}
