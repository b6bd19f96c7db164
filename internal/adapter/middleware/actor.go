package middleware

import (
	"net/http"
	"strings"

	"compliance-portal/internal/domain/organization"

	"github.com/labstack/echo/v4"
)

// HeaderOrgCode carries the acting organization. The portal trusts whatever
// sits in front of it to have authenticated the caller.
const HeaderOrgCode = "Ax-Org-Code"

const actingOrgKey = "acting_org"

// ActingOrg rejects requests without a roster organization in HeaderOrgCode
// and stores the parsed code on the echo context.
func ActingOrg() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderOrgCode))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderOrgCode})
			}
			code, ok := organization.Parse(raw)
			if !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown organization " + raw})
			}
			c.Set(actingOrgKey, code)
			return next(c)
		}
	}
}

// OrgFrom returns the organization stored by ActingOrg.
func OrgFrom(c echo.Context) (organization.Code, bool) {
	code, ok := c.Get(actingOrgKey).(organization.Code)
	return code, ok && code != ""
}

// orgFromRequest prefers the code stored by ActingOrg and falls back to the header.
func orgFromRequest(c echo.Context) (organization.Code, bool) {
	if code, ok := OrgFrom(c); ok {
		return code, true
	}
	return organization.Parse(c.Request().Header.Get(HeaderOrgCode))
}
