package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// RBAC enforces role-based access control at the operation boundary. Roles
// are the closed domain enum, never ad-hoc strings.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
