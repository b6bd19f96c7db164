package http

import (
	"net/http"

	"compliance-portal/internal/usecase/notification"

	"github.com/labstack/echo/v4"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type NotificationHandler struct{ uc *notification.Usecase }

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	limit := defaultNotificationLimit
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer"})
	}
	if limit <= 0 || limit > maxNotificationLimit {
		limit = defaultNotificationLimit
	}
	inbox, err := h.uc.List(c.Request().Context(), org, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inbox)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.MarkRead(c.Request().Context(), c.Param("id"), org); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
