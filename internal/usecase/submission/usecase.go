package submission

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"compliance-portal/internal/domain/apperr"
	notificationDomain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/routing"
	domain "compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"
	"compliance-portal/internal/infrastructure/logging"
	"compliance-portal/internal/infrastructure/metrics"
	"compliance-portal/internal/usecase/notification"
	"compliance-portal/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	uow     uow.UnitOfWork
	subs    domain.Repository
	fanout  *notification.Fanout
	deliver notification.Deliverer
	now     func() time.Time
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewUsecase(tx uow.UnitOfWork, subs domain.Repository, fanout *notification.Fanout, deliver notification.Deliverer, now func() time.Time, log *zap.Logger, m *metrics.Metrics) *Usecase {
	if now == nil {
		now = time.Now
	}
	return &Usecase{uow: tx, subs: subs, fanout: fanout, deliver: deliver, now: now, log: logging.OrNop(log), metrics: m}
}

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmissionDTO, error) {
	s, err := u.prepare(in)
	if err != nil {
		return nil, err
	}

	var (
		out   *SubmissionDTO
		notes []notificationDomain.Notification
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if in.ID != "" {
			existing, err := r.Submissions.GetByID(ctx, s.ID)
			switch {
			case err == nil:
				if existing.OrganizationOfOrigin != s.OrganizationOfOrigin {
					return apperr.Conflict("submission id %s is taken", s.ID)
				}
				out = toDTO(existing)
				out.Replayed = true
				return nil
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}

		if s.Kind.IsReport() {
			if err := u.reconcile(ctx, r, s); err != nil {
				return err
			}
		}

		if err := r.Submissions.Create(ctx, s); err != nil {
			return err
		}
		created, err := u.fanout.SubmissionEvent(ctx, r.Notifications, s)
		if err != nil {
			return err
		}
		notes = created
		out = toDTO(s)
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	if !out.Replayed {
		u.metrics.Transition(string(s.Kind), "", string(domain.StatusPending))
		u.log.Info("submission created",
			zap.String("submission_id", s.ID),
			zap.String("origin", s.OrganizationOfOrigin.String()),
			zap.String("submitted_to", s.SubmittedTo.String()),
			zap.String("kind", string(s.Kind)))
		u.deliverAfterCommit(ctx, notes)
	}
	return out, nil
}

// prepare validates the input and builds the Pending record.
func (u *Usecase) prepare(in SubmitInput) (*domain.Submission, error) {
	if !in.Origin.Known() {
		return nil, apperr.Routing("unknown organization %q", in.Origin)
	}
	if !in.Kind.Valid() {
		return nil, apperr.Validation("unknown submission kind %q", in.Kind)
	}
	title := strings.TrimSpace(in.ActivityTitle)
	if title == "" {
		return nil, apperr.Validation("activity_title is required")
	}
	if len(in.ID) > 32 {
		return nil, apperr.Validation("id must be at most 32 characters")
	}
	if in.FileURL != "" {
		if parsed, err := url.ParseRequestURI(in.FileURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, apperr.Validation("file_url %q is not a valid link", in.FileURL)
		}
	}

	target, err := routing.ResolveTarget(in.Origin, in.Kind, in.CurrentReviewer)
	if err != nil {
		return nil, err
	}

	s := &domain.Submission{
		ID:                   in.ID,
		OrganizationOfOrigin: in.Origin,
		Kind:                 in.Kind,
		ActivityTitle:        title,
		SubmittedTo:          target,
		Status:               domain.StatusPending,
		SubmittedAt:          u.now().UTC(),
	}
	if s.ID == "" {
		s.ID = id.NewID32()
	}
	if v := strings.TrimSpace(in.LinkedActivityID); v != "" {
		s.LinkedActivityID = &v
	}
	if in.FileURL != "" {
		s.FileURL = &in.FileURL
	}
	if v := strings.TrimSpace(in.FileName); v != "" {
		s.FileName = &v
	}
	if in.Kind == domain.KindAppeal && in.AppealKind != "" {
		if !in.AppealKind.IsReport() {
			return nil, apperr.Validation("appeal_kind must be a report kind")
		}
		k := in.AppealKind
		s.AppealKind = &k
	}
	return s, nil
}

// reconcile moves the newest ForRevision record of the same (origin, title,
// kind) forward on behalf of resub. The conditional update turns a lost race
// into a conflict instead of a double transition.
func (u *Usecase) reconcile(ctx context.Context, r uow.Repos, resub *domain.Submission) error {
	prev, err := r.Submissions.LatestForRevision(ctx, resub.OrganizationOfOrigin, resub.ActivityTitle, resub.Kind)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// approval history is the origin's own; another tier's approval of a
	// same-titled report says nothing about this organization's obligation
	ever, err := r.Submissions.HasApproval(ctx, resub.OrganizationOfOrigin, resub.ActivityTitle, resub.Kind)
	if err != nil {
		return err
	}
	if err := prev.Reconcile(resub.ID, ever); err != nil {
		return err
	}
	if err := r.Submissions.UpdateIfStatus(ctx, prev, domain.StatusForRevision); err != nil {
		return err
	}
	u.metrics.Reconciled(string(prev.Status))
	u.metrics.Transition(string(prev.Kind), string(domain.StatusForRevision), string(prev.Status))
	u.log.Info("revision reconciled",
		zap.String("submission_id", prev.ID),
		zap.String("resubmission_id", resub.ID),
		zap.String("status", string(prev.Status)))
	return nil
}

// Review applies a reviewer decision to a Pending submission. Letters of
// appeal are resolved by the appeal usecase instead.
func (u *Usecase) Review(ctx context.Context, in ReviewInput) (*SubmissionDTO, error) {
	switch in.Decision {
	case DecisionApprove, DecisionReject, DecisionRevise:
	default:
		return nil, apperr.Validation("unknown decision %q", in.Decision)
	}
	if !in.Reviewer.Known() {
		return nil, apperr.Routing("unknown organization %q", in.Reviewer)
	}

	var (
		out   *SubmissionDTO
		notes []notificationDomain.Notification
		from  domain.Status
	)
	err := u.uow.WithinSubmissionTx(ctx, in.SubmissionID, func(r uow.Repos, s *domain.Submission) error {
		if s.Kind == domain.KindAppeal {
			return apperr.Validation("letters of appeal are resolved through the appeal actions")
		}
		if s.SubmittedTo != in.Reviewer {
			return apperr.Forbidden("submission %s is not addressed to %s", s.ID, in.Reviewer)
		}
		if s.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		from = s.Status

		var err error
		switch in.Decision {
		case DecisionApprove:
			err = s.Approve(in.Reviewer)
		case DecisionReject:
			err = s.Reject(in.Reason)
		case DecisionRevise:
			err = s.RequestRevision(in.Reason)
		}
		if err != nil {
			return err
		}
		if err := r.Submissions.UpdateIfStatus(ctx, s, from); err != nil {
			return err
		}
		if notes, err = u.fanout.StatusChange(ctx, r.Notifications, s, in.Reviewer); err != nil {
			return err
		}
		out = toDTO(s)
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}

	u.metrics.Transition(string(out.Kind), string(from), string(out.Status))
	u.log.Info("submission reviewed",
		zap.String("submission_id", out.ID),
		zap.String("reviewer", in.Reviewer.String()),
		zap.String("status", string(out.Status)))
	u.deliverAfterCommit(ctx, notes)
	return out, nil
}

// Delete removes a submission on behalf of its origin. Approved records are
// kept as DeletedPreviouslyApproved markers with their file references
// dropped; deleting such a marker again changes nothing.
func (u *Usecase) Delete(ctx context.Context, submissionID string, actor organization.Code) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	var kind domain.Kind
	err := u.uow.WithinSubmissionTx(ctx, submissionID, func(r uow.Repos, s *domain.Submission) error {
		if s.OrganizationOfOrigin != actor {
			return apperr.Forbidden("only %s may delete submission %s", s.OrganizationOfOrigin, s.ID)
		}
		kind = s.Kind
		switch s.Status {
		case domain.StatusDeletedPreviouslyApproved:
			outcome = OutcomeUnchanged
			return nil
		case domain.StatusApproved:
			if err := s.SoftDelete(); err != nil {
				return err
			}
			outcome = OutcomeSoftDeleted
			return r.Submissions.UpdateIfStatus(ctx, s, domain.StatusApproved)
		default:
			outcome = OutcomeDeleted
			return r.Submissions.Delete(ctx, s.ID)
		}
	})
	if err != nil {
		return "", mapErr(err)
	}
	if outcome == OutcomeSoftDeleted {
		u.metrics.Transition(string(kind), string(domain.StatusApproved), string(domain.StatusDeletedPreviouslyApproved))
	}
	u.log.Info("submission deleted", zap.String("submission_id", submissionID), zap.String("outcome", string(outcome)))
	return outcome, nil
}

func (u *Usecase) Get(ctx context.Context, submissionID string, viewer organization.Code) (*SubmissionDTO, error) {
	s, err := u.subs.GetByID(ctx, submissionID)
	if err != nil {
		return nil, mapErr(err)
	}
	if !CanSee(viewer, s) {
		return nil, apperr.Forbidden("submission %s is not visible to %s", s.ID, viewer)
	}
	return toDTO(s), nil
}

// ListProjected returns one row per activity title over everything viewer may see.
func (u *Usecase) ListProjected(ctx context.Context, viewer organization.Code) ([]domain.ActivityRow, error) {
	if !viewer.Known() {
		return nil, apperr.Routing("unknown organization %q", viewer)
	}
	subs, err := u.subs.ListVisible(ctx, ScopeFor(viewer))
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	visible := subs[:0]
	for i := range subs {
		if CanSee(viewer, &subs[i]) {
			visible = append(visible, subs[i])
		}
	}
	return domain.Project(visible), nil
}

// ScopeFor is the coarse store filter for viewer: its own submissions plus
// anything addressed to it or to a tier it reviews. CanSee refines it.
func ScopeFor(viewer organization.Code) domain.Scope {
	scope := domain.Scope{
		Origins:   []organization.Code{viewer},
		Reviewers: []organization.Code{viewer},
	}
	for _, c := range organization.Roster() {
		for _, k := range []domain.Kind{domain.KindAccomplishment, domain.KindRequestToConduct} {
			if p, ok := routing.Parent(c, k); ok && p == viewer {
				scope.Reviewers = append(scope.Reviewers, c)
				break
			}
		}
	}
	return scope
}

// CanSee reports whether viewer submitted s, reviews it, or monitors its reviewer.
func CanSee(viewer organization.Code, s *domain.Submission) bool {
	if viewer == s.OrganizationOfOrigin || viewer == s.SubmittedTo {
		return true
	}
	p, ok := routing.Parent(s.SubmittedTo, s.Kind)
	return ok && p == viewer
}

func (u *Usecase) deliverAfterCommit(ctx context.Context, notes []notificationDomain.Notification) {
	if u.deliver != nil && len(notes) > 0 {
		u.deliver.Deliver(ctx, notes)
	}
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return apperr.Persistence(err)
}
