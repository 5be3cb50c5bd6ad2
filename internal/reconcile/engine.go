// Package reconcile keeps the local identity store in line with the directory.
//
// Roles and permissions are derived from group membership on every sync, except for
// identities an administrator has put under manual override: those keep their role
// and permissions while every other field keeps following the directory.
package reconcile

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/controller/identity"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/directory"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
)

// Directory is the directory access the engine needs. *directory.Client implements it.
type Directory interface {
	OpenAdminSession() (directory.Session, error)
	FetchUserByAccountName(s directory.Session, accountName string) (*directory.Attributes, error)
	FetchAllUsers(s directory.Session) (iter.Seq2[*directory.Attributes, error], error)
}

// Resolver maps group memberships to a role. *rbac.Resolver implements it.
type Resolver interface {
	Resolve(groups []string) (rbac.Role, rbac.Matrix)
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the clock used to stamp sync times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine merges directory attributes into stored identities.
type Engine struct {
	db       *gorm.DB
	dir      Directory
	resolver Resolver
	now      func() time.Time
}

// NewEngine creates a sync engine.
func NewEngine(db *gorm.DB, dir Directory, resolver Resolver, opts ...Option) *Engine {
	e := &Engine{
		db:       db,
		dir:      dir,
		resolver: resolver,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// SyncOne upserts the identity for attrs in a single transaction and reports whether
// it was created. Role and permissions are left alone when the stored identity is under
// manual override; all other fields are overwritten from the directory.
func (e *Engine) SyncOne(attrs *directory.Attributes) (*models.Identity, bool, error) {
	if attrs == nil || attrs.AccountName == "" {
		return nil, false, ErrInvalidAttributes
	}

	role, perms := e.resolver.Resolve(attrs.Groups)
	syncedAt := e.now()

	var (
		record  *models.Identity
		created bool
	)

	err := e.db.Transaction(func(tx *gorm.DB) error {
		existing, err := identity.Get(tx, attrs.AccountName)

		switch {
		case errors.Is(err, identity.ErrIdentityNotFound):
			record = &models.Identity{AccountName: attrs.AccountName}
			created = true
		case err != nil:
			return err
		default:
			record = existing
		}

		if !record.ManualOverride {
			record.Role = role
			record.Permissions = perms
		}

		applyAttributes(record, attrs)
		record.LastSyncAt = &syncedAt

		if created {
			return identity.Create(tx, record)
		}

		return identity.Save(tx, record)
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w %s: %w", ErrRecordPersistence, attrs.AccountName, err)
	}

	return record, created, nil
}

// applyAttributes copies every directory backed field except role and permissions.
func applyAttributes(record *models.Identity, attrs *directory.Attributes) {
	record.Email = deref(attrs.Mail)
	record.DisplayName = deref(attrs.DisplayName)
	record.Department = deref(attrs.Department)
	record.Position = deref(attrs.Title)
	record.Phone = deref(attrs.Phone)
	record.Office = deref(attrs.Office)
	record.Company = deref(attrs.Company)
	record.Manager = deref(attrs.Manager)
	record.Active = attrs.Active()
	record.Groups = append([]string{}, attrs.Groups...)
	record.DN = attrs.DN
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// SyncAccount fetches one account with a fresh admin session and syncs it.
func (e *Engine) SyncAccount(accountName string) (*models.Identity, error) {
	sess, err := e.dir.OpenAdminSession()
	if err != nil {
		return nil, err
	}
	defer closeSession(sess)

	attrs, err := e.dir.FetchUserByAccountName(sess, accountName)
	if err != nil {
		return nil, err
	}

	if attrs == nil {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryUserNotFound, accountName)
	}

	record, _, err := e.SyncOne(attrs)

	return record, err
}

// SyncAll syncs every directory user over one admin session. Failures of single
// entries are counted in the report and do not stop the run; only a failure to open
// the session or to run the search is returned as an error.
func (e *Engine) SyncAll() (*Report, error) {
	report := &Report{ErrorDetails: []string{}, StartedAt: e.now()}

	sess, err := e.dir.OpenAdminSession()
	if err != nil {
		syncRuns.WithLabelValues("failed").Inc()
		return nil, err
	}
	defer closeSession(sess)

	users, err := e.dir.FetchAllUsers(sess)
	if err != nil {
		syncRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	for attrs, errEntry := range users {
		outcome := e.syncEntry(attrs, errEntry)
		if outcome.Err != nil {
			log.Warn().Err(outcome.Err).Str("account", outcome.AccountName).Msg("directory entry not synced")
		}

		observe(outcome)
		report.Add(outcome)
	}

	report.FinishedAt = e.now()

	syncRuns.WithLabelValues("completed").Inc()
	syncDuration.Observe(report.Duration().Seconds())

	log.Info().
		Int("total", report.TotalUsers).
		Int("new", report.NewUsers).
		Int("updated", report.UpdatedUsers).
		Int("errors", report.Errors).
		Dur("duration", report.Duration()).
		Msg("directory sync finished")

	return report, nil
}

// syncEntry is the per entry error boundary of SyncAll.
func (e *Engine) syncEntry(attrs *directory.Attributes, errEntry error) (outcome Outcome) {
	if attrs != nil {
		outcome.AccountName = attrs.AccountName
	}

	if errEntry != nil {
		outcome.Err = errEntry
		return outcome
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("%w %s: panic: %v", ErrRecordPersistence, outcome.AccountName, r)
		}
	}()

	outcome.Identity, outcome.Created, outcome.Err = e.SyncOne(attrs)

	return outcome
}

func closeSession(s directory.Session) {
	if errClose := s.Close(); errClose != nil {
		log.Warn().Err(errClose).Msg("failed to close directory connection")
	}
}
