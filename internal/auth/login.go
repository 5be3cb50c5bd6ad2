package auth

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/controller/identity"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/directory"
)

// Directory is the directory access a login needs. *directory.Client implements it.
type Directory interface {
	VerifyUserCredential(accountName, password string) bool
	OpenAdminSession() (directory.Session, error)
	FetchUserByAccountName(s directory.Session, accountName string) (*directory.Attributes, error)
}

// Syncer merges fetched attributes into the identity store. *reconcile.Engine implements it.
type Syncer interface {
	SyncOne(attrs *directory.Attributes) (*models.Identity, bool, error)
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Identity  *models.Identity
	Token     string
	ExpiresAt time.Time
}

// Service authenticates users against the directory and issues session tokens.
type Service struct {
	dir    Directory
	syncer Syncer
	issuer *Issuer
	db     *gorm.DB
	now    func() time.Time
}

// NewService creates a login service.
func NewService(dir Directory, syncer Syncer, issuer *Issuer, db *gorm.DB) *Service {
	return &Service{
		dir:    dir,
		syncer: syncer,
		issuer: issuer,
		db:     db,
		now:    time.Now,
	}
}

// Login checks the password with a user bind, refreshes the identity from the
// directory and issues a token. Nothing is synced when the password is wrong.
// Any failure returns ErrAuthenticationFailed; the reason is only logged.
func (s *Service) Login(accountName, password string) (*LoginResult, error) {
	if !s.dir.VerifyUserCredential(accountName, password) {
		log.Debug().Str("account", accountName).Msg(directory.ErrInvalidCredential.Error())
		return s.fail(loginInvalidCredentials)
	}

	attrs, err := s.fetch(accountName)
	if err != nil {
		log.Warn().Err(err).Str("account", accountName).Msg("login: failed to fetch directory attributes")
		return s.fail(loginError)
	}

	if attrs == nil {
		log.Warn().Str("account", accountName).Msg("login: account bound but not found by search")
		return s.fail(loginNotFound)
	}

	record, _, err := s.syncer.SyncOne(attrs)
	if err != nil {
		log.Warn().Err(err).Str("account", accountName).Msg("login: failed to sync identity")
		return s.fail(loginError)
	}

	if !record.Active {
		log.Info().Str("account", accountName).Msg("login: account is disabled")
		return s.fail(loginInactive)
	}

	token, err := s.issuer.Issue(record)
	if err != nil {
		log.Error().Err(err).Str("account", accountName).Msg("login: failed to issue token")
		return s.fail(loginError)
	}

	now := s.now()

	if err = identity.TouchLastLogin(s.db, record.ID, now); err != nil {
		log.Warn().Err(err).Str("account", accountName).Msg("login: failed to store last login")
		return s.fail(loginError)
	}

	record.LastLoginAt = &now

	logins.WithLabelValues(loginSuccess).Inc()
	log.Info().Str("account", accountName).Str("role", record.Role.String()).Msg("login succeeded")

	return &LoginResult{
		Identity:  record,
		Token:     token,
		ExpiresAt: now.Add(s.issuer.TTL()),
	}, nil
}

func (s *Service) fetch(accountName string) (*directory.Attributes, error) {
	sess, err := s.dir.OpenAdminSession()
	if err != nil {
		return nil, err
	}

	defer func() {
		if errClose := sess.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close directory connection")
		}
	}()

	return s.dir.FetchUserByAccountName(sess, accountName)
}

func (s *Service) fail(reason string) (*LoginResult, error) {
	logins.WithLabelValues(reason).Inc()

	return nil, ErrAuthenticationFailed
}
