// Package auth resolves bearer tokens to user identities. Real verification
// goes through the Auth0 JWKS endpoint; a fixed development identity is used
// when Auth0 is not configured.
package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yuanbopang/subscription-manager/internal/models"
)

const (
	localsIdentity = "identity"
	localsUser     = "current_user"
)

// Identity is the verified (or development) token payload.
type Identity struct {
	Subject  string
	Email    string
	Name     string
	Picture  string
	Nickname string
	// Dev marks the fixed development identity used when no provider is
	// configured. Logged and surfaced distinctly from verified identities.
	Dev bool
}

// DevIdentity is returned by the gate when Auth0 is not configured.
var DevIdentity = Identity{
	Subject: "dev|local-user",
	Email:   "dev@example.com",
	Name:    "Local Developer",
	Dev:     true,
}

// IdentityFromContext returns the identity stored by the auth middleware.
func IdentityFromContext(c *fiber.Ctx) (Identity, error) {
	if id, ok := c.Locals(localsIdentity).(Identity); ok {
		return id, nil
	}
	return Identity{}, errors.New("no identity in context")
}

// CurrentUser returns the database user resolved by the identity middleware.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	if u, ok := c.Locals(localsUser).(*models.User); ok {
		return u, nil
	}
	return nil, errors.New("no user in context")
}

// identityFromClaims maps Auth0 claims onto an Identity. Only sub is
// guaranteed; profile claims are best-effort.
func identityFromClaims(claims jwt.MapClaims) (Identity, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, errors.New("token missing sub claim")
	}
	id := Identity{Subject: sub}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.Picture, _ = claims["picture"].(string)
	id.Nickname, _ = claims["nickname"].(string)
	return id, nil
}
