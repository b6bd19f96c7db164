package http

import (
	"net/http"

	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	usecase "compliance-portal/internal/usecase/submission"

	"github.com/labstack/echo/v4"
)

// HoldChecker reports organizations whose submissions are suspended.
type HoldChecker interface {
	OnHold(code organization.Code) bool
}

type SubmissionHandler struct {
	uc   *usecase.Usecase
	hold HoldChecker
}

func NewSubmissionHandler(uc *usecase.Usecase, hold HoldChecker) *SubmissionHandler {
	return &SubmissionHandler{uc: uc, hold: hold}
}

type submitReq struct {
	ID               string `json:"id"                 validate:"omitempty,hex32"`
	Kind             string `json:"kind"               validate:"required,kind"`
	ActivityTitle    string `json:"activity_title"     validate:"required,max=255"`
	LinkedActivityID string `json:"linked_activity_id" validate:"omitempty,hex32"`
	FileURL          string `json:"file_url"           validate:"required,url"`
	FileName         string `json:"file_name"          validate:"omitempty,max=255"`
	// appeals only
	CurrentReviewer string `json:"current_reviewer" validate:"omitempty,orgcode"`
	AppealKind      string `json:"appeal_kind"      validate:"omitempty,reportkind"`
}

func (h *SubmissionHandler) Submit(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if h.hold != nil && h.hold.OnHold(org) {
		return c.JSON(http.StatusLocked, ErrorResponse{Error: "organization " + org.String() + " is on hold"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}

	kind, _ := submission.ParseKind(req.Kind)
	in := usecase.SubmitInput{
		ID:               req.ID,
		Origin:           org,
		Kind:             kind,
		ActivityTitle:    req.ActivityTitle,
		LinkedActivityID: req.LinkedActivityID,
		FileURL:          req.FileURL,
		FileName:         req.FileName,
	}
	if req.CurrentReviewer != "" {
		in.CurrentReviewer, _ = organization.Parse(req.CurrentReviewer)
	}
	if req.AppealKind != "" {
		in.AppealKind, _ = submission.ParseKind(req.AppealKind)
	}

	dto, err := h.uc.Submit(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	if dto.Replayed {
		return c.JSON(http.StatusOK, dto)
	}
	return c.JSON(http.StatusCreated, dto)
}

type reviewReq struct {
	Decision string `json:"decision" validate:"required,decision"`
	Reason   string `json:"reason"   validate:"max=2000"`
}

func (h *SubmissionHandler) Review(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	dto, err := h.uc.Review(c.Request().Context(), usecase.ReviewInput{
		SubmissionID: c.Param("id"),
		Reviewer:     org,
		Decision:     usecase.Decision(req.Decision),
		Reason:       req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SubmissionHandler) Delete(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	outcome, err := h.uc.Delete(c.Request().Context(), c.Param("id"), org)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id"), "outcome": string(outcome)})
}

func (h *SubmissionHandler) Get(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	dto, err := h.uc.Get(c.Request().Context(), c.Param("id"), org)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// List returns the per-activity view of everything the caller may see.
func (h *SubmissionHandler) List(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	rows, err := h.uc.ListProjected(c.Request().Context(), org)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
