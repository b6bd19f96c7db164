package organizationmock

import (
	"context"

	domain "compliance-portal/internal/domain/organization"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	ListFn         func(ctx context.Context) ([]domain.Organization, error)
	GetByCodeFn    func(ctx context.Context, code domain.Code) (*domain.Organization, error)
	EnsureRosterFn func(ctx context.Context, orgs []domain.Organization) error
	SetHoldFn      func(ctx context.Context, code domain.Code, onHold bool) error
}

func (m *Repo) List(ctx context.Context) ([]domain.Organization, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) GetByCode(ctx context.Context, code domain.Code) (*domain.Organization, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) EnsureRoster(ctx context.Context, orgs []domain.Organization) error {
	if m.EnsureRosterFn != nil {
		return m.EnsureRosterFn(ctx, orgs)
	}
	return nil
}

func (m *Repo) SetHold(ctx context.Context, code domain.Code, onHold bool) error {
	if m.SetHoldFn != nil {
		return m.SetHoldFn(ctx, code, onHold)
	}
	return nil
}
