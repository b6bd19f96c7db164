package activitymock

import (
	"context"

	domain "compliance-portal/internal/domain/activity"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Activity) error
	SaveFn             func(ctx context.Context, a *domain.Activity) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Activity, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Activity, error)
	DeleteFn           func(ctx context.Context, id string) error
	ListFn             func(ctx context.Context) ([]domain.Activity, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Activity) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Activity) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Activity, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) List(ctx context.Context) ([]domain.Activity, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
