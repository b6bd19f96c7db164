package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"compliance-portal/internal/domain/apperr"
	auditDomain "compliance-portal/internal/domain/audit"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"
	"compliance-portal/internal/infrastructure/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReviewInput struct {
	SubmissionID string
	Reviewer     organization.Code `json:"-"`
	Opinion      string            `json:"opinion"`
	Comment      string            `json:"comment"`
}

type ReviewDTO struct {
	Submission submission.Submission   `json:"submission"`
	Classified bool                    `json:"classified"`
	Assignment *auditDomain.Assignment `json:"audit_assignment,omitempty"`
	// ClassifiedThisYear counts the origin's classified reports in the
	// current year. It is reported only; Classify never reads it.
	ClassifiedThisYear int64 `json:"classified_this_year"`
}

type Usecase struct {
	uow uow.UnitOfWork
	now func() time.Time
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, now func() time.Time, log *zap.Logger) *Usecase {
	if now == nil {
		now = time.Now
	}
	return &Usecase{uow: tx, now: now, log: logging.OrNop(log)}
}

// RecordReview stores the audit authority's opinion and comment on an
// approved report. The call that completes the pair classifies the report.
func (u *Usecase) RecordReview(ctx context.Context, in ReviewInput) (*ReviewDTO, error) {
	if in.Reviewer != organization.COA {
		return nil, apperr.Forbidden("only %s records audit reviews", organization.COA)
	}
	if strings.TrimSpace(in.Opinion) == "" && strings.TrimSpace(in.Comment) == "" {
		return nil, apperr.Validation("opinion or comment is required")
	}

	now := u.now()
	var out *ReviewDTO
	err := u.uow.WithinSubmissionTx(ctx, in.SubmissionID, func(r uow.Repos, s *submission.Submission) error {
		classified, err := s.RecordAuditReview(in.Opinion, in.Comment, now)
		if err != nil {
			return err
		}
		if err := r.Submissions.UpdateIfStatus(ctx, s, submission.StatusApproved); err != nil {
			return err
		}
		from, to := auditDomain.YearBounds(now)
		n, err := r.Submissions.CountAuditClassified(ctx, s.OrganizationOfOrigin, from, to)
		if err != nil {
			return err
		}
		out = &ReviewDTO{Submission: *s, Classified: classified, Assignment: s.Assignment(), ClassifiedThisYear: n}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, submission.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	if out.Classified {
		u.log.Info("report audit-classified",
			zap.String("submission_id", out.Submission.ID),
			zap.String("semester", string(out.Assignment.Semester)),
			zap.String("phase", string(out.Assignment.Phase)),
			zap.Int64("classified_this_year", out.ClassifiedThisYear))
	}
	return out, nil
}
