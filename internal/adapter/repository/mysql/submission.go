package mysql

import (
	"context"
	"time"

	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/organization"
	submissionDomain "compliance-portal/internal/domain/submission"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct{ db *gorm.DB }

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository { return &SubmissionRepository{db: db} }

// columns a status transition may touch
var submissionMutable = []string{
	"status", "approved_by", "file_url", "file_name", "revision_reason", "rejection_reason",
	"reconciled_by_id", "review_opinion", "review_comment", "audit_semester", "audit_phase",
	"audit_reviewed_at", "updated_at",
}

func (r *SubmissionRepository) Create(ctx context.Context, s *submissionDomain.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*submissionDomain.Submission, error) {
	var out submissionDomain.Submission
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) GetByIDForUpdate(ctx context.Context, id string) (*submissionDomain.Submission, error) {
	var out submissionDomain.Submission
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) LatestForRevision(ctx context.Context, origin organization.Code, title string, kind submissionDomain.Kind) (*submissionDomain.Submission, error) {
	var out submissionDomain.Submission
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_of_origin = ? AND activity_title = ? AND kind = ? AND status = ?",
			origin, title, kind, submissionDomain.StatusForRevision).
		Order("submitted_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) HasApproval(ctx context.Context, origin organization.Code, title string, kind submissionDomain.Kind) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&submissionDomain.Submission{}).
		Where("organization_of_origin = ? AND activity_title = ? AND kind = ?", origin, title, kind).
		Where("approved_by IS NOT NULL OR status IN ?", []submissionDomain.Status{
			submissionDomain.StatusApproved, submissionDomain.StatusDeletedPreviouslyApproved,
		}).
		Count(&n).Error
	return n > 0, err
}

func (r *SubmissionRepository) UpdateIfStatus(ctx context.Context, s *submissionDomain.Submission, expected submissionDomain.Status) error {
	s.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&submissionDomain.Submission{}).
		Where("id = ? AND status = ?", s.ID, expected).
		Select(submissionMutable).
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("submission %s is no longer %s", s.ID, expected)
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&submissionDomain.Submission{}).Error
}

func (r *SubmissionRepository) ListForActivity(ctx context.Context, activityID, title string) ([]submissionDomain.Submission, error) {
	var out []submissionDomain.Submission
	err := r.db.WithContext(ctx).
		Where("linked_activity_id = ? OR ((linked_activity_id IS NULL OR linked_activity_id = '') AND activity_title = ?)", activityID, title).
		Order("submitted_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *SubmissionRepository) ListVisible(ctx context.Context, scope submissionDomain.Scope) ([]submissionDomain.Submission, error) {
	var out []submissionDomain.Submission
	if len(scope.Origins) == 0 && len(scope.Reviewers) == 0 {
		return out, nil
	}
	q := r.db.WithContext(ctx).Model(&submissionDomain.Submission{})
	switch {
	case len(scope.Origins) > 0 && len(scope.Reviewers) > 0:
		q = q.Where("organization_of_origin IN ? OR submitted_to IN ?", scope.Origins, scope.Reviewers)
	case len(scope.Origins) > 0:
		q = q.Where("organization_of_origin IN ?", scope.Origins)
	default:
		q = q.Where("submitted_to IN ?", scope.Reviewers)
	}
	err := q.Order("submitted_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *SubmissionRepository) CountAuditClassified(ctx context.Context, origin organization.Code, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&submissionDomain.Submission{}).
		Where("organization_of_origin = ? AND audit_semester IS NOT NULL", origin).
		Where("audit_reviewed_at >= ? AND audit_reviewed_at < ?", from, to).
		Count(&n).Error
	return n, err
}
