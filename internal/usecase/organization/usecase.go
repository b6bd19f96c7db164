package organization

import (
	"context"
	"errors"

	"compliance-portal/internal/domain/apperr"
	domain "compliance-portal/internal/domain/organization"
	"compliance-portal/internal/infrastructure/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HoldAuthority is the only tier allowed to place or lift a hold.
const HoldAuthority = domain.OSLD

type Usecase struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewUsecase(repo domain.Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, log: logging.OrNop(log)}
}

func (u *Usecase) List(ctx context.Context) ([]domain.Organization, error) {
	orgs, err := u.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return orgs, nil
}

// Seed inserts any roster organization missing from the store.
func (u *Usecase) Seed(ctx context.Context) error {
	return apperr.Persistence(u.repo.EnsureRoster(ctx, domain.DefaultProfiles()))
}

func (u *Usecase) SetHold(ctx context.Context, actor, code domain.Code, onHold bool) error {
	if actor != HoldAuthority {
		return apperr.Forbidden("only %s may change hold status", HoldAuthority)
	}
	if !code.Known() {
		return apperr.Routing("unknown organization %q", code)
	}
	err := u.repo.SetHold(ctx, code, onHold)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("organization " + code.String())
	}
	if err != nil {
		return apperr.Persistence(err)
	}
	u.log.Info("hold status changed", zap.String("organization", code.String()), zap.Bool("on_hold", onHold))
	return nil
}
