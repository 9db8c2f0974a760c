package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"servicemarket/internal/infrastructure/firebase"
	"servicemarket/pkg/errors"
)

const (
	ContextUID      = "uid"
	ContextIdentity = "identity"
	ContextUser     = "user"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*firebase.Identity, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return errors.Unauthorized("Authorization header is required", nil)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return errors.Unauthorized("Invalid authorization format", nil)
		}

		identity, err := m.verifier.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return errors.Unauthorized("Invalid or expired token", err)
		}

		c.Set(ContextUID, identity.UID)
		c.Set(ContextIdentity, identity)
		return next(c)
	}
}
