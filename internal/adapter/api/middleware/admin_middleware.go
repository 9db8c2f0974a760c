package middleware

import (
	"github.com/labstack/echo/v4"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
)

// RoleMiddleware loads the signed-in user's record so handlers and guards can
// check the user's role. It must run after AuthMiddleware.
type RoleMiddleware struct {
	userRepo repository.UserRepository
}

func NewRoleMiddleware(userRepo repository.UserRepository) *RoleMiddleware {
	return &RoleMiddleware{
		userRepo: userRepo,
	}
}

// LoadUser stores the user record in the context when one exists. Users
// without a record yet (first sign-in) pass through.
func (m *RoleMiddleware) LoadUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get(ContextUID).(string)
		if !ok {
			return errors.Unauthorized("Authentication required", nil)
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
		if user != nil {
			c.Set(ContextUser, user)
		}
		return next(c)
	}
}

func (m *RoleMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.LoadUser(func(c echo.Context) error {
		if CurrentRole(c) != entity.RoleAdmin {
			return errors.Forbidden("Admin privileges required", nil)
		}
		return next(c)
	})
}

// CurrentRole is the role of the user loaded by LoadUser, or "" when none.
func CurrentRole(c echo.Context) entity.UserRole {
	if user, ok := c.Get(ContextUser).(*entity.User); ok {
		return user.Role
	}
	return ""
}
