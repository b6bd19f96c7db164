package http

import (
	"net/http"

	"compliance-portal/internal/usecase/audit"

	"github.com/labstack/echo/v4"
)

type AuditHandler struct{ uc *audit.Usecase }

func NewAuditHandler(uc *audit.Usecase) *AuditHandler { return &AuditHandler{uc: uc} }

// opinion and comment may arrive in separate calls
type auditReviewReq struct {
	Opinion string `json:"opinion" validate:"max=4000"`
	Comment string `json:"comment" validate:"max=4000"`
}

func (h *AuditHandler) Review(c echo.Context) error {
	org, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req auditReviewReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	dto, err := h.uc.RecordReview(c.Request().Context(), audit.ReviewInput{
		SubmissionID: c.Param("id"),
		Reviewer:     org,
		Opinion:      req.Opinion,
		Comment:      req.Comment,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
