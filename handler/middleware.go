package handler

import (
	"strings"

	"github.com/AndreeJait/email-storm/license"
	"github.com/labstack/echo/v4"
)

const contextSystemID = "system_id"

// RequireLicense rejects requests without a valid license token when the
// service enforces licensing. A nil service lets everything through.
func RequireLicense(svc *license.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if svc == nil || !svc.Enforced() {
				return next(c)
			}

			systemID, err := svc.VerifyToken(bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)))
			if err != nil {
				return err
			}
			c.Set(contextSystemID, systemID)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
