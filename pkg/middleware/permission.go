package middleware

import (
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequirePermission guards a route with a base permission code. Scoped
// decisions against a concrete target stay in the controllers; this only
// rejects actors whose role lacks the capability entirely.
func RequirePermission(code string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			perms, err := utils.GetPermissionsMapFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			if !perms["superuser"] && !perms[code] {
				return utils.ErrorResponse(c, apperrors.ErrForbidden, logger)
			}
			return next(c)
		}
	}
}
