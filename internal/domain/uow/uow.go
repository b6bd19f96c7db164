package uow

import (
	"context"

	"compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
)

// Repos are bound to one transaction.
type Repos struct {
	Organizations organization.Repository
	Activities    activity.Repository
	Submissions   submission.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx; returning an error rolls everything back
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the submission row first, then pass it in
	WithinSubmissionTx(ctx context.Context, submissionID string, fn func(r Repos, s *submission.Submission) error) error
}
