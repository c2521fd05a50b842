package auth

import (
	"log/slog"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yuanbopang/subscription-manager/internal/config"
	"github.com/yuanbopang/subscription-manager/internal/dto"
	"github.com/yuanbopang/subscription-manager/internal/models"
)

// UserStore get-or-creates the database user for a verified identity.
// Implemented by services.UserService.
type UserStore interface {
	GetOrCreate(identity Identity) (*models.User, error)
}

// Protected returns the bearer-token gate. With Auth0 configured it verifies
// RS256 tokens against the JWKS endpoint; otherwise every request gets the
// fixed development identity. Identity-provider failure is fatal to the
// request: there is no fallback.
func Protected(cfg *config.Config) fiber.Handler {
	if !cfg.Auth0Configured() {
		slog.Warn("auth0 not configured, using fixed development identity", "subject", DevIdentity.Subject)
		return func(c *fiber.Ctx) error {
			c.Locals(localsIdentity, DevIdentity)
			return c.Next()
		}
	}

	return jwtware.New(jwtware.Config{
		JWKSetURLs: []string{cfg.Auth0JWKSURL()},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// ResolveUser validates issuer/audience on verified tokens, maps the claims
// to an identity and get-or-creates the user row. Runs after Protected, so a
// token that reaches it has already passed the signature check.
func ResolveUser(cfg *config.Config, users UserStore) fiber.Handler {
	issuer := cfg.Auth0Issuer()
	audience := cfg.Auth0Audience

	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals(localsIdentity).(Identity)
		if !ok {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "missing token in context")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}

			if iss, err := claims.GetIssuer(); err != nil || iss != issuer {
				return unauthorized(c, "invalid token issuer")
			}
			aud, err := claims.GetAudience()
			if err != nil || !containsAudience(aud, audience) {
				return unauthorized(c, "invalid token audience")
			}

			identity, err = identityFromClaims(claims)
			if err != nil {
				return unauthorized(c, err.Error())
			}
			c.Locals(localsIdentity, identity)
		}

		user, err := users.GetOrCreate(identity)
		if err != nil {
			slog.Error("failed to resolve user", "subject", identity.Subject, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Failed to resolve user",
			})
		}
		c.Locals(localsUser, user)
		return c.Next()
	}
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: " + msg,
	})
}
