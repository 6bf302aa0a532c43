package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/brandshub/user-directory/internal/core/auth"
	"github.com/brandshub/user-directory/internal/core/domain"
)

// RequireAdmin permits only callers holding the administrative role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get(CtxRoles).([]string)
			if !auth.IsAdmin(roles) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireSelfOrAdmin permits the caller when the path parameter names
// their own record, or when they hold the administrative role.
func RequireSelfOrAdmin(idParam string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerID, _ := c.Get(CtxUserID).(string)
			roles, _ := c.Get(CtxRoles).([]string)
			if !auth.CanAccessUser(callerID, roles, c.Param(idParam)) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
