package http

import (
	"net/http"

	domain "compliance-portal/internal/domain/organization"
	"compliance-portal/internal/usecase/organization"

	"github.com/labstack/echo/v4"
)

type OrganizationHandler struct{ uc *organization.Usecase }

func NewOrganizationHandler(uc *organization.Usecase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

func (h *OrganizationHandler) List(c echo.Context) error {
	orgs, err := h.uc.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orgs)
}

type holdReq struct {
	OnHold *bool `json:"on_hold" validate:"required"`
}

func (h *OrganizationHandler) SetHold(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	code, known := domain.Parse(c.Param("code"))
	if !known {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "organization " + c.Param("code") + " not found"})
	}
	var req holdReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	if err := h.uc.SetHold(c.Request().Context(), org, code, *req.OnHold); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"code": code, "on_hold": *req.OnHold})
}
