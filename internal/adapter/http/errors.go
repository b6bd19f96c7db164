package http

import (
	"errors"
	"net/http"

	"compliance-portal/internal/adapter/middleware"
	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/organization"

	"github.com/labstack/echo/v4"
)

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		return http.StatusUnprocessableEntity
	case apperr.ErrRouting:
		return http.StatusInternalServerError
	case apperr.ErrConflict:
		return http.StatusConflict
	case apperr.ErrPersistence:
		return http.StatusServiceUnavailable
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func fail(c echo.Context, err error) error {
	msg := err.Error()
	if errors.Is(err, apperr.ErrPersistence) {
		// store details stay out of responses
		msg = apperr.ErrPersistence.Error()
	}
	return c.JSON(statusOf(err), ErrorResponse{Error: msg})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func invalid(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

// actor is the organization set by middleware.ActingOrg.
func actor(c echo.Context) (organization.Code, bool) { return middleware.OrgFrom(c) }

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + middleware.HeaderOrgCode})
}
