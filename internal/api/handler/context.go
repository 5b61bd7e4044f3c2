package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// ctxIdentity extracts the verified caller identity injected by the Auth
// middleware and performs a fast-fail check before any service call: both
// the user id and the role must be present, otherwise the token is
// structurally valid but operationally unusable.
func ctxIdentity(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	roleStr, _ := c.Get("role").(string)

	if userID == "" || !domain.ValidRole(roleStr) {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "incomplete credentials")
	}
	return userID, domain.Role(roleStr), nil
}
