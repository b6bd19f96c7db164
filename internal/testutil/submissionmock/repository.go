package submissionmock

import (
	"context"
	"time"

	"compliance-portal/internal/domain/organization"
	domain "compliance-portal/internal/domain/submission"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to success; reads default to gorm.ErrRecordNotFound or empty.
type Repo struct {
	CreateFn               func(ctx context.Context, s *domain.Submission) error
	GetByIDFn              func(ctx context.Context, id string) (*domain.Submission, error)
	GetByIDForUpdateFn     func(ctx context.Context, id string) (*domain.Submission, error)
	LatestForRevisionFn    func(ctx context.Context, origin organization.Code, title string, kind domain.Kind) (*domain.Submission, error)
	HasApprovalFn          func(ctx context.Context, origin organization.Code, title string, kind domain.Kind) (bool, error)
	UpdateIfStatusFn       func(ctx context.Context, s *domain.Submission, expected domain.Status) error
	DeleteFn               func(ctx context.Context, id string) error
	ListForActivityFn      func(ctx context.Context, activityID, title string) ([]domain.Submission, error)
	ListVisibleFn          func(ctx context.Context, scope domain.Scope) ([]domain.Submission, error)
	CountAuditClassifiedFn func(ctx context.Context, origin organization.Code, from, to time.Time) (int64, error)
}

func (m *Repo) Create(ctx context.Context, s *domain.Submission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Submission, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) LatestForRevision(ctx context.Context, origin organization.Code, title string, kind domain.Kind) (*domain.Submission, error) {
	if m.LatestForRevisionFn != nil {
		return m.LatestForRevisionFn(ctx, origin, title, kind)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) HasApproval(ctx context.Context, origin organization.Code, title string, kind domain.Kind) (bool, error) {
	if m.HasApprovalFn != nil {
		return m.HasApprovalFn(ctx, origin, title, kind)
	}
	return false, nil
}

func (m *Repo) UpdateIfStatus(ctx context.Context, s *domain.Submission, expected domain.Status) error {
	if m.UpdateIfStatusFn != nil {
		return m.UpdateIfStatusFn(ctx, s, expected)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) ListForActivity(ctx context.Context, activityID, title string) ([]domain.Submission, error) {
	if m.ListForActivityFn != nil {
		return m.ListForActivityFn(ctx, activityID, title)
	}
	return nil, nil
}

func (m *Repo) ListVisible(ctx context.Context, scope domain.Scope) ([]domain.Submission, error) {
	if m.ListVisibleFn != nil {
		return m.ListVisibleFn(ctx, scope)
	}
	return nil, nil
}

func (m *Repo) CountAuditClassified(ctx context.Context, origin organization.Code, from, to time.Time) (int64, error) {
	if m.CountAuditClassifiedFn != nil {
		return m.CountAuditClassifiedFn(ctx, origin, from, to)
	}
	return 0, nil
}
