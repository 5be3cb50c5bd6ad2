// Package dirsync provides the directory sync and status API.
package dirsync

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/auth"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/directory"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/reconcile"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/web/handler"
)

const (
	// Path is the base path of the directory routes.
	Path = handler.APIPath + "/directory"
)

// Service is the directory sync handler service.
type Service struct {
	full     handler.FullSync
	accounts handler.AccountSync
	dir      handler.DirectoryStatus
}

// Handler is the directory sync handler.
var Handler = Service{}

// Init registers the directory routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if err := deps.Validate(); err != nil {
		return err
	}

	s.full = deps.FullSync
	s.accounts = deps.Accounts
	s.dir = deps.Directory

	group := router.Group(Path, auth.RequireToken(deps.Issuer))

	group.Post("/sync", auth.RequirePermission(rbac.CapSystemSyncDirectory), s.SyncAll)
	group.Post("/sync/:account", auth.RequirePermission(rbac.CapSystemSyncDirectory), s.SyncAccount)
	group.Get("/sync/last",
		auth.RequireAnyPermission(rbac.CapSystemSyncDirectory, rbac.CapSystemViewLogs), s.LastReport)
	group.Get("/status",
		auth.RequireAnyPermission(rbac.CapSystemSettings, rbac.CapSystemSyncDirectory), s.Status)

	return nil
}

// SyncAll runs a full sync and returns its report.
func (s *Service) SyncAll(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	log.Info().Str("account", claims.AccountName).Msg("full directory sync requested")

	report, err := s.full.Run()
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(report)
}

// SyncAccount syncs one account and returns the stored identity.
func (s *Service) SyncAccount(c *fiber.Ctx) error {
	account := c.Params("account")

	record, err := s.accounts.SyncAccount(account)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(handler.NewIdentityView(record))
}

// LastReport returns the report of the last completed full sync.
func (s *Service) LastReport(c *fiber.Ctx) error {
	report, err := s.full.LastReport()
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(report)
}

// Status reports the active endpoint, its reachability and the bind format order.
func (s *Service) Status(c *fiber.Ctx) error {
	return c.JSON(s.dir.Status())
}

// toHTTPError maps sync and directory errors to status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, reconcile.ErrSyncInProgress):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, reconcile.ErrNoReport), errors.Is(err, reconcile.ErrDirectoryUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, directory.ErrConnectivity):
		log.Warn().Err(err).Msg("directory unreachable")
		return fiber.NewError(fiber.StatusServiceUnavailable, directory.ErrConnectivity.Error())
	case errors.Is(err, directory.ErrBindExhausted), errors.Is(err, directory.ErrDirectoryQuery):
		log.Error().Err(err).Msg("directory request failed")
		return fiber.NewError(fiber.StatusBadGateway, "directory request failed")
	case errors.Is(err, reconcile.ErrRecordPersistence):
		log.Error().Err(err).Msg("identity not stored")
		return fiber.NewError(fiber.StatusInternalServerError, reconcile.ErrRecordPersistence.Error())
	default:
		log.Error().Err(err).Msg("directory sync failed")
		return err
	}
}
