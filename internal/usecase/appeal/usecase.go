package appeal

import (
	"context"
	"errors"
	"slices"
	"strings"

	activityDomain "compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/deadline"
	notificationDomain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"
	"compliance-portal/internal/infrastructure/logging"
	"compliance-portal/internal/infrastructure/metrics"
	"compliance-portal/internal/usecase/notification"
	"compliance-portal/pkg/workday"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	uow     uow.UnitOfWork
	fanout  *notification.Fanout
	deliver notification.Deliverer
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewUsecase(tx uow.UnitOfWork, fanout *notification.Fanout, deliver notification.Deliverer, log *zap.Logger, m *metrics.Metrics) *Usecase {
	return &Usecase{uow: tx, fanout: fanout, deliver: deliver, log: logging.OrNop(log), metrics: m}
}

// checkAppeal guards both resolutions: a Pending letter of appeal addressed to reviewer.
func checkAppeal(s *submission.Submission, reviewer string) error {
	if s.Kind != submission.KindAppeal {
		return apperr.Validation("submission %s is not a letter of appeal", s.ID)
	}
	if string(s.SubmittedTo) != reviewer {
		return apperr.Forbidden("appeal %s is not addressed to %s", s.ID, reviewer)
	}
	if s.Status != submission.StatusPending {
		return submission.ErrInvalidTransition
	}
	return nil
}

// appealCovers ties s to a: the appeal must correlate with the activity and
// its origin must be one of the activity's targets.
func appealCovers(s *submission.Submission, a *activityDomain.Activity) error {
	if !s.Correlates(a.ID, a.Title) {
		return apperr.Validation("appeal %s is not about activity %s", s.ID, a.ID)
	}
	if !slices.Contains(deadline.Targets(a), s.OrganizationOfOrigin) {
		return apperr.Validation("activity %s is not owed by %s", a.ID, s.OrganizationOfOrigin)
	}
	return nil
}

// Approve grants the appeal and moves the activity's deadline for kind
// ExtensionDays calendar days past its current value, override or derived.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*AppealDTO, error) {
	if !in.Kind.IsReport() {
		return nil, apperr.Validation("kind %q has no deadline to extend", in.Kind)
	}
	if !in.Reviewer.Known() {
		return nil, apperr.Routing("unknown organization %q", in.Reviewer)
	}

	var (
		out   *AppealDTO
		notes []notificationDomain.Notification
	)
	err := u.uow.WithinSubmissionTx(ctx, in.SubmissionID, func(r uow.Repos, s *submission.Submission) error {
		if err := checkAppeal(s, string(in.Reviewer)); err != nil {
			return err
		}
		if s.OrganizationOfOrigin != in.Appellant {
			return apperr.Validation("appeal %s was filed by %s, not %s", s.ID, s.OrganizationOfOrigin, in.Appellant)
		}
		if s.AppealKind != nil && *s.AppealKind != in.Kind {
			return apperr.Validation("appeal %s asks about %s, not %s", s.ID, *s.AppealKind, in.Kind)
		}

		a, err := r.Activities.GetByIDForUpdate(ctx, in.ActivityID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return activityDomain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !a.Requires(in.Kind) {
			return apperr.Validation("activity %s does not require %s", a.ID, in.Kind)
		}
		if err := appealCovers(s, a); err != nil {
			return err
		}

		if err := s.Approve(in.Reviewer); err != nil {
			return err
		}
		if err := r.Submissions.UpdateIfStatus(ctx, s, submission.StatusPending); err != nil {
			return err
		}

		current, _ := deadline.Due(a, in.Kind)
		extended := workday.AddCalendarDays(current, ExtensionDays)
		if err := a.SetOverride(in.Kind, extended); err != nil {
			return err
		}
		if err := r.Activities.Save(ctx, a); err != nil {
			return err
		}

		if notes, err = u.fanout.DeadlineExtended(ctx, r.Notifications, a, in.Kind, extended, in.Appellant, in.Reviewer); err != nil {
			return err
		}
		out = &AppealDTO{Submission: *s, ActivityID: a.ID, Kind: in.Kind, PreviousDue: &current, NewDue: &extended}
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}

	u.metrics.Transition(string(submission.KindAppeal), string(submission.StatusPending), string(submission.StatusApproved))
	u.metrics.OverrideWritten()
	u.log.Info("appeal approved",
		zap.String("submission_id", in.SubmissionID),
		zap.String("activity_id", in.ActivityID),
		zap.String("kind", string(in.Kind)),
		zap.Time("new_due", *out.NewDue))
	if u.deliver != nil {
		u.deliver.Deliver(ctx, notes)
	}
	return out, nil
}

// Reject closes the appeal with a reason. Deadlines stay as they are.
func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*AppealDTO, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, submission.ErrReasonRequired
	}

	var (
		out   *AppealDTO
		notes []notificationDomain.Notification
	)
	err := u.uow.WithinSubmissionTx(ctx, in.SubmissionID, func(r uow.Repos, s *submission.Submission) error {
		if err := checkAppeal(s, string(in.Reviewer)); err != nil {
			return err
		}
		if err := s.Reject(reason); err != nil {
			return err
		}
		if err := r.Submissions.UpdateIfStatus(ctx, s, submission.StatusPending); err != nil {
			return err
		}
		var err error
		if notes, err = u.fanout.StatusChange(ctx, r.Notifications, s, in.Reviewer); err != nil {
			return err
		}
		out = &AppealDTO{Submission: *s}
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}

	u.metrics.Transition(string(submission.KindAppeal), string(submission.StatusPending), string(submission.StatusRejected))
	u.log.Info("appeal rejected", zap.String("submission_id", in.SubmissionID))
	if u.deliver != nil {
		u.deliver.Deliver(ctx, notes)
	}
	return out, nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return submission.ErrNotFound
	}
	return apperr.Persistence(err)
}

