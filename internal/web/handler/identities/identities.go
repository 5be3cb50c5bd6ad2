// Package identities provides the identity listing and role override API.
package identities

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/auth"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/controller/identity"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/web/handler"
)

const (
	// Path is the base path of the identity routes.
	Path = handler.APIPath + "/identities"
)

// OverrideRequest is the body of PUT /identities/:account/override.
type OverrideRequest struct {
	Role string `json:"role" form:"role" validate:"required"`
}

// Service is the identity handler service.
type Service struct {
	db       *gorm.DB
	accounts handler.AccountSync
}

// Handler is the identity handler.
var Handler = Service{}

// Init registers the identity routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if err := deps.Validate(); err != nil {
		return err
	}

	s.db = deps.DB
	s.accounts = deps.Accounts

	group := router.Group(Path, auth.RequireToken(deps.Issuer))

	group.Get(handler.RouterRootPath, auth.RequirePermission(rbac.CapUsersView), s.List)
	group.Get("/:account", auth.RequirePermission(rbac.CapUsersView), s.Get)
	group.Put("/:account/override", auth.RequirePermission(rbac.CapUsersManageRoles), s.SetOverride)
	group.Delete("/:account/override", auth.RequirePermission(rbac.CapUsersManageRoles), s.ClearOverride)

	return nil
}

// List returns all identities ordered by account name.
func (s *Service) List(c *fiber.Ctx) error {
	records, err := identity.List(s.db)
	if err != nil {
		return err
	}

	views := make([]handler.IdentityView, 0, len(records))
	for i := range records {
		views = append(views, handler.NewIdentityView(&records[i]))
	}

	return c.JSON(views)
}

// Get returns one identity.
func (s *Service) Get(c *fiber.Ctx) error {
	record, err := identity.Get(s.db, c.Params("account"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(handler.NewIdentityView(record))
}

// SetOverride pins the role of an identity regardless of its directory groups.
func (s *Service) SetOverride(c *fiber.Ctx) error {
	req := new(OverrideRequest)
	if err := handler.ParseBody(c, req); err != nil {
		return err
	}

	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	record, err := identity.SetOverride(s.db, c.Params("account"), role)
	if err != nil {
		return toHTTPError(err)
	}

	log.Info().
		Str("by", auth.ClaimsFromContext(c).AccountName).
		Str("account", record.AccountName).
		Str("role", role.String()).
		Msg("role override set")

	return c.JSON(handler.NewIdentityView(record))
}

// ClearOverride returns role management to the directory and resyncs the account so
// the derived role applies at once. A failed resync leaves the previous role in place
// until the next sync.
func (s *Service) ClearOverride(c *fiber.Ctx) error {
	record, err := identity.ClearOverride(s.db, c.Params("account"))
	if err != nil {
		return toHTTPError(err)
	}

	log.Info().
		Str("by", auth.ClaimsFromContext(c).AccountName).
		Str("account", record.AccountName).
		Msg("role override cleared")

	synced, err := s.accounts.SyncAccount(record.AccountName)
	if err != nil {
		log.Warn().Err(err).Str("account", record.AccountName).Msg("resync after clearing override failed")
		return c.JSON(handler.NewIdentityView(record))
	}

	return c.JSON(handler.NewIdentityView(synced))
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, identity.ErrIdentityNotFound):
		return fiber.NewError(fiber.StatusNotFound, identity.ErrIdentityNotFound.Error())
	case errors.Is(err, identity.ErrAccountNameEmpty):
		return fiber.NewError(fiber.StatusBadRequest, identity.ErrAccountNameEmpty.Error())
	default:
		return err
	}
}
