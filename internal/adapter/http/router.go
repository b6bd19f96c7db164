package http

import (
	"net/http"

	"compliance-portal/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Routes struct {
	Health        *Handler
	Metrics       http.Handler
	Submissions   *SubmissionHandler
	Appeals       *AppealHandler
	Audits        *AuditHandler
	Activities    *ActivityHandler
	Deadlines     *DeadlineHandler
	Notifications *NotificationHandler
	Organizations *OrganizationHandler
}

// Register mounts every route on e. Portal routes require an acting
// organization; extra middleware (idempotency) runs after it.
func Register(e *echo.Echo, r Routes, extra ...echo.MiddlewareFunc) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	api := e.Group("", append([]echo.MiddlewareFunc{middleware.ActingOrg()}, extra...)...)

	api.POST("/submissions", r.Submissions.Submit)
	api.GET("/submissions", r.Submissions.List)
	api.GET("/submissions/:id", r.Submissions.Get)
	api.DELETE("/submissions/:id", r.Submissions.Delete)
	api.POST("/submissions/:id/review", r.Submissions.Review)
	api.POST("/submissions/:id/audit", r.Audits.Review)

	api.POST("/appeals/:id/approve", r.Appeals.Approve)
	api.POST("/appeals/:id/reject", r.Appeals.Reject)

	api.POST("/activities", r.Activities.Create)
	api.GET("/activities", r.Activities.List)
	api.GET("/activities/:id", r.Activities.Get)
	api.PUT("/activities/:id", r.Activities.Edit)
	api.DELETE("/activities/:id", r.Activities.Delete)
	api.GET("/activities/:id/deadlines", r.Activities.Deadlines)

	api.GET("/deadlines", r.Deadlines.Inbox)

	api.GET("/notifications", r.Notifications.List)
	api.POST("/notifications/:id/read", r.Notifications.MarkRead)

	api.GET("/organizations", r.Organizations.List)
	api.PUT("/organizations/:code/hold", r.Organizations.SetHold)
}
