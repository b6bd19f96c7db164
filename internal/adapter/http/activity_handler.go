package http

import (
	"net/http"
	"time"

	"compliance-portal/internal/usecase/activity"
	"compliance-portal/internal/usecase/deadline"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

type ActivityHandler struct {
	uc        *activity.Usecase
	deadlines *deadline.Usecase
}

func NewActivityHandler(uc *activity.Usecase, deadlines *deadline.Usecase) *ActivityHandler {
	return &ActivityHandler{uc: uc, deadlines: deadlines}
}

// Dates are calendar dates, `YYYY-MM-DD`.
type upsertActivityReq struct {
	Title                  string `json:"title"                   validate:"required,max=255"`
	Description            string `json:"description"             validate:"max=4000"`
	Target                 string `json:"target_organization"     validate:"required,orgtarget"`
	StartDate              string `json:"start_date"              validate:"required,datetime=2006-01-02"`
	EndDate                string `json:"end_date"                validate:"required,datetime=2006-01-02"`
	RequiresAccomplishment bool   `json:"requires_accomplishment"`
	RequiresLiquidation    bool   `json:"requires_liquidation"`
	AccomplishmentDue      string `json:"accomplishment_due"      validate:"omitempty,datetime=2006-01-02"`
	LiquidationDue         string `json:"liquidation_due"         validate:"omitempty,datetime=2006-01-02"`
}

func (r upsertActivityReq) toInput() activity.UpsertInput {
	in := activity.UpsertInput{
		Title:                  r.Title,
		Description:            r.Description,
		Target:                 r.Target,
		RequiresAccomplishment: r.RequiresAccomplishment,
		RequiresLiquidation:    r.RequiresLiquidation,
	}
	// layouts were checked by the validator
	in.StartDate, _ = time.Parse(dateLayout, r.StartDate)
	in.EndDate, _ = time.Parse(dateLayout, r.EndDate)
	in.AccomplishmentDue = optionalDate(r.AccomplishmentDue)
	in.LiquidationDue = optionalDate(r.LiquidationDue)
	return in
}

func optionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *ActivityHandler) Create(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req upsertActivityReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), org, req.toInput())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ActivityHandler) Edit(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req upsertActivityReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	dto, err := h.uc.Edit(c.Request().Context(), c.Param("id"), org, req.toInput())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ActivityHandler) Delete(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Request().Context(), c.Param("id"), org); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ActivityHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ActivityHandler) List(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// Deadlines lists the derived deadline records of one activity as the caller sees them.
func (h *ActivityHandler) Deadlines(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	recs, err := h.deadlines.ForActivity(c.Request().Context(), c.Param("id"), org)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}
