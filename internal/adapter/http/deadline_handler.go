package http

import (
	"net/http"

	"compliance-portal/internal/usecase/deadline"

	"github.com/labstack/echo/v4"
)

type DeadlineHandler struct{ uc *deadline.Usecase }

func NewDeadlineHandler(uc *deadline.Usecase) *DeadlineHandler { return &DeadlineHandler{uc: uc} }

func (h *DeadlineHandler) Inbox(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	recs, err := h.uc.Inbox(c.Request().Context(), org)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}
