package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// claimsKey is the fiber.Locals key holding the verified *Claims.
const claimsKey = "auth.claims"

// RequireToken creates Fiber middleware that accepts only requests carrying a valid
// bearer token. The verified claims are available through ClaimsFromContext.
func RequireToken(issuer *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected session token")
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(claimsKey, claims)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a capability in the token's
// permission matrix. It must run after RequireToken.
func RequirePermission(capability string) fiber.Handler {
	return RequireAnyPermission(capability)
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given
// capabilities.
func RequireAnyPermission(capabilities ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromContext(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		for _, capability := range capabilities {
			if claims.Permissions.Allows(capability) {
				return c.Next()
			}
		}

		log.Warn().Str("account", claims.AccountName).Strs("permissions", capabilities).
			Msg("User lacks required permission")

		return fiber.NewError(fiber.StatusForbidden, "you don't have permission to access this resource")
	}
}

// ClaimsFromContext returns the claims stored by RequireToken, or nil.
func ClaimsFromContext(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsKey).(*Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
