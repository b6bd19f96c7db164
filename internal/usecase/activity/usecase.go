package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/deadline"
	notificationDomain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"
	"compliance-portal/internal/infrastructure/logging"
	"compliance-portal/internal/usecase/notification"
	"compliance-portal/pkg/id"
	"compliance-portal/pkg/workday"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Usecase struct {
	uow     uow.UnitOfWork
	repo    domain.Repository
	fanout  *notification.Fanout
	deliver notification.Deliverer
	log     *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, repo domain.Repository, fanout *notification.Fanout, deliver notification.Deliverer, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, repo: repo, fanout: fanout, deliver: deliver, log: logging.OrNop(log)}
}

// apply copies in onto a, replacing dates, flags and overrides wholesale.
func apply(a *domain.Activity, in UpsertInput) error {
	target, ok := organization.Parse(in.Target)
	if strings.EqualFold(strings.TrimSpace(in.Target), string(organization.All)) {
		target, ok = organization.All, true
	}
	if !ok {
		return apperr.Routing("unknown target organization %q", in.Target)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return apperr.Validation("start_date and end_date are required")
	}

	a.Title = strings.TrimSpace(in.Title)
	a.Description = strings.TrimSpace(in.Description)
	a.TargetOrganization = target
	a.StartDate = datatypes.Date(workday.Truncate(in.StartDate))
	a.EndDate = datatypes.Date(workday.Truncate(in.EndDate))
	a.RequiresAccomplishment = in.RequiresAccomplishment
	a.RequiresLiquidation = in.RequiresLiquidation
	a.AccomplishmentDue, a.LiquidationDue = nil, nil

	overrides := map[submission.Kind]*time.Time{
		submission.KindAccomplishment: in.AccomplishmentDue,
		submission.KindLiquidation:    in.LiquidationDue,
	}
	for kind, due := range overrides {
		if due == nil {
			continue
		}
		if !a.Requires(kind) {
			return apperr.Validation("override given for %s, which the activity does not require", kind)
		}
		if err := a.SetOverride(kind, workday.Truncate(*due)); err != nil {
			return err
		}
	}
	return a.Validate()
}

func toDTO(a *domain.Activity) *ActivityDTO {
	out := &ActivityDTO{Activity: *a, Deadlines: []DueDTO{}}
	for _, k := range a.RequiredKinds() {
		due, overridden := deadline.Due(a, k)
		out.Deadlines = append(out.Deadlines, DueDTO{Kind: k, DueDate: due, IsOverridden: overridden})
	}
	return out
}

// Create stores a new activity owned by owner and announces it.
func (u *Usecase) Create(ctx context.Context, owner organization.Code, in UpsertInput) (*ActivityDTO, error) {
	if !owner.Known() {
		return nil, apperr.Routing("unknown organization %q", owner)
	}
	a := &domain.Activity{ID: id.NewID32(), OwnerOrganization: owner}
	if err := apply(a, in); err != nil {
		return nil, err
	}

	var notes []notificationDomain.Notification
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Activities.Create(ctx, a); err != nil {
			return err
		}
		var err error
		notes, err = u.fanout.NewActivity(ctx, r.Notifications, a, owner)
		return err
	})
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	u.log.Info("activity created",
		zap.String("activity_id", a.ID),
		zap.String("owner", owner.String()),
		zap.String("target", a.TargetOrganization.String()),
		zap.Int("notifications", len(notes)))
	if u.deliver != nil {
		u.deliver.Deliver(ctx, notes)
	}
	return toDTO(a), nil
}

// Edit replaces an activity's fields. Deadlines are derived, so they follow.
func (u *Usecase) Edit(ctx context.Context, activityID string, actor organization.Code, in UpsertInput) (*ActivityDTO, error) {
	var out *ActivityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Activities.GetByIDForUpdate(ctx, activityID)
		if err != nil {
			return err
		}
		if a.OwnerOrganization != actor {
			return apperr.Forbidden("only %s may edit activity %s", a.OwnerOrganization, a.ID)
		}
		if err := apply(a, in); err != nil {
			return err
		}
		if err := r.Activities.Save(ctx, a); err != nil {
			return err
		}
		out = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}
	u.log.Info("activity edited", zap.String("activity_id", activityID))
	return out, nil
}

func (u *Usecase) Delete(ctx context.Context, activityID string, actor organization.Code) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Activities.GetByIDForUpdate(ctx, activityID)
		if err != nil {
			return err
		}
		if a.OwnerOrganization != actor {
			return apperr.Forbidden("only %s may delete activity %s", a.OwnerOrganization, a.ID)
		}
		return r.Activities.Delete(ctx, a.ID)
	})
	if err != nil {
		return mapErr(err)
	}
	u.log.Info("activity deleted", zap.String("activity_id", activityID))
	return nil
}

func (u *Usecase) Get(ctx context.Context, activityID string) (*ActivityDTO, error) {
	a, err := u.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, mapErr(err)
	}
	return toDTO(a), nil
}

func (u *Usecase) List(ctx context.Context) ([]ActivityDTO, error) {
	as, err := u.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	out := make([]ActivityDTO, 0, len(as))
	for i := range as {
		out = append(out, *toDTO(&as[i]))
	}
	return out, nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return apperr.Persistence(err)
}
