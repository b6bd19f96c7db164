package deadline

import (
	"context"
	"errors"
	"sort"

	activityDomain "compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/apperr"
	domain "compliance-portal/internal/domain/deadline"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"

	"gorm.io/gorm"
)

// Usecase recomputes deadlines from the store on every call. Nothing is cached.
type Usecase struct {
	activities activityDomain.Repository
	subs       submission.Repository
}

func NewUsecase(activities activityDomain.Repository, subs submission.Repository) *Usecase {
	return &Usecase{activities: activities, subs: subs}
}

// Inbox lists the open deadlines viewer owes, plus those where viewer has to
// act on or watch a pending submission.
func (u *Usecase) Inbox(ctx context.Context, viewer organization.Code) ([]domain.Record, error) {
	if !viewer.Known() {
		return nil, apperr.Routing("unknown organization %q", viewer)
	}
	acts, err := u.activities.List(ctx)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	out := []domain.Record{}
	for i := range acts {
		a := &acts[i]
		if len(a.RequiredKinds()) == 0 {
			continue
		}
		recs, err := u.derive(ctx, a, viewer)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			if r.TargetOrganization == viewer || r.Relation != domain.RelationNone {
				out = append(out, r)
			}
		}
	}
	sortRecords(out)
	return out, nil
}

// ForActivity returns every open deadline of one activity across its targets.
func (u *Usecase) ForActivity(ctx context.Context, activityID string, viewer organization.Code) ([]domain.Record, error) {
	a, err := u.activities.GetByID(ctx, activityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, activityDomain.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	out, err := u.derive(ctx, a, viewer)
	if err != nil {
		return nil, err
	}
	sortRecords(out)
	return out, nil
}

func (u *Usecase) derive(ctx context.Context, a *activityDomain.Activity, viewer organization.Code) ([]domain.Record, error) {
	subs, err := u.subs.ListForActivity(ctx, a.ID, a.Title)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	var out []domain.Record
	for _, target := range domain.Targets(a) {
		out = append(out, domain.Derive(domain.Input{Activity: a, Target: target, Viewer: viewer, Submissions: subs})...)
	}
	return out, nil
}

func sortRecords(rs []domain.Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		switch {
		case !a.DueDate.Equal(b.DueDate):
			return a.DueDate.Before(b.DueDate)
		case a.ActivityTitle != b.ActivityTitle:
			return a.ActivityTitle < b.ActivityTitle
		case a.TargetOrganization != b.TargetOrganization:
			return a.TargetOrganization < b.TargetOrganization
		}
		return a.Kind < b.Kind
	})
}
