// Package login provides the token login API.
package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/auth"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/web/handler"
)

const (
	// Path is the base path of the auth routes.
	Path = handler.APIPath + "/auth"
)

// Request is the login request body.
type Request struct {
	AccountName string `json:"account_name" form:"account_name" validate:"required,max=256"`
	Password    string `json:"password"     form:"password"     validate:"required,max=1024"`
}

// Response is returned on a successful login.
type Response struct {
	Token     string               `json:"token"`
	TokenType string               `json:"token_type"`
	ExpiresAt time.Time            `json:"expires_at"`
	Identity  handler.IdentityView `json:"identity"`
}

// Service is the login handler service.
type Service struct {
	login handler.Authenticator
}

// Handler is the login handler.
var Handler = Service{}

// Init registers the login routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if err := deps.Validate(); err != nil {
		return err
	}

	s.login = deps.Login

	group := router.Group(Path)
	group.Post("/login", s.Post)
	group.Get("/me", auth.RequireToken(deps.Issuer), s.Me)

	return nil
}

// Post authenticates the account and returns a session token. Every failure is the
// same 401 so callers cannot probe which accounts exist.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.ParseBody(c, req); err != nil {
		return err
	}

	res, err := s.login.Login(req.AccountName, req.Password)
	if errors.Is(err, auth.ErrAuthenticationFailed) {
		return fiber.NewError(fiber.StatusUnauthorized, auth.ErrAuthenticationFailed.Error())
	}

	if err != nil {
		log.Error().Err(err).Msg("login failed unexpectedly")
		return err
	}

	return c.JSON(Response{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		Identity:  handler.NewIdentityView(res.Identity),
	})
}

// Me returns the claims of the presented token.
func (s *Service) Me(c *fiber.Ctx) error {
	return c.JSON(auth.ClaimsFromContext(c))
}
