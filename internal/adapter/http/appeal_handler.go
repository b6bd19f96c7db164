package http

import (
	"net/http"

	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/usecase/appeal"

	"github.com/labstack/echo/v4"
)

type AppealHandler struct{ uc *appeal.Usecase }

func NewAppealHandler(uc *appeal.Usecase) *AppealHandler { return &AppealHandler{uc: uc} }

type approveAppealReq struct {
	ActivityID string `json:"activity_id" validate:"required,hex32"`
	Kind       string `json:"kind"        validate:"required,reportkind"`
	Appellant  string `json:"appellant"   validate:"required,orgcode"`
}

func (h *AppealHandler) Approve(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req approveAppealReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	kind, _ := submission.ParseKind(req.Kind)
	appellant, _ := organization.Parse(req.Appellant)

	dto, err := h.uc.Approve(c.Request().Context(), appeal.ApproveInput{
		SubmissionID: c.Param("id"),
		ActivityID:   req.ActivityID,
		Kind:         kind,
		Appellant:    appellant,
		Reviewer:     org,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type rejectAppealReq struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

func (h *AppealHandler) Reject(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req rejectAppealReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	dto, err := h.uc.Reject(c.Request().Context(), appeal.RejectInput{
		SubmissionID: c.Param("id"),
		Reviewer:     org,
		Reason:       req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
