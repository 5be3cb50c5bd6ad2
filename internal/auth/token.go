package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/db/models"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/rbac"
)

const (
	// DefaultTokenTTL is the validity window of a session token.
	DefaultTokenTTL = 8 * time.Hour

	// DefaultTokenIssuer is the iss claim of session tokens.
	DefaultTokenIssuer = "go-library-admin"
)

// Claims is the content of a session token. Permissions are a snapshot taken at login
// and are not re-derived while the token is valid.
type Claims struct {
	IdentityID  uint64      `json:"uid"`
	AccountName string      `json:"account_name"`
	Email       string      `json:"email,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	Role        rbac.Role   `json:"role"`
	Permissions rbac.Matrix `json:"permissions"`
	Department  string      `json:"department,omitempty"`
	Position    string      `json:"position,omitempty"`
	Active      bool        `json:"active"`

	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// IssuerOption customizes an Issuer.
type IssuerOption func(*Issuer)

// WithIssuerClock replaces the clock used for issuing and validating tokens.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// WithIssuerName sets the iss claim.
func WithIssuerName(name string) IssuerOption {
	return func(i *Issuer) { i.issuer = name }
}

// NewIssuer creates a token issuer. A zero ttl uses DefaultTokenTTL.
func NewIssuer(secret string, ttl time.Duration, opts ...IssuerOption) (*Issuer, error) {
	if secret == "" {
		return nil, ErrSecretEmpty
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	i := &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: DefaultTokenIssuer,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

// TTL returns the validity window of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for identity, valid for the issuer's TTL.
func (i *Issuer) Issue(identity *models.Identity) (string, error) {
	now := i.now()

	claims := &Claims{
		IdentityID:  identity.ID,
		AccountName: identity.AccountName,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
		Permissions: identity.Permissions,
		Department:  identity.Department,
		Position:    identity.Position,
		Active:      identity.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   strconv.FormatUint(identity.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, issuer and validity window and returns the claims.
// Every failure wraps ErrTokenInvalid.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	return claims, nil
}

// GenerateSecret returns a random hex encoded signing secret.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
