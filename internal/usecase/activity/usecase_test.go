package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/apperr"
	notificationDomain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"
	"compliance-portal/internal/testutil/activitymock"
	"compliance-portal/internal/testutil/notificationmock"
	"compliance-portal/internal/testutil/uowmock"
	"compliance-portal/internal/usecase/notification"

	"gorm.io/gorm"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	rows  map[string]domain.Activity
	notes []notificationDomain.Notification
	uc    *Usecase
}

func newFixture(seed ...domain.Activity) *fixture {
	f := &fixture{rows: map[string]domain.Activity{}}
	for _, a := range seed {
		f.rows[a.ID] = a
	}
	get := func(_ context.Context, id string) (*domain.Activity, error) {
		a, ok := f.rows[id]
		if !ok {
			return nil, gorm.ErrRecordNotFound
		}
		return &a, nil
	}
	acts := &activitymock.Repo{
		CreateFn:           func(_ context.Context, a *domain.Activity) error { f.rows[a.ID] = *a; return nil },
		SaveFn:             func(_ context.Context, a *domain.Activity) error { f.rows[a.ID] = *a; return nil },
		GetByIDFn:          get,
		GetByIDForUpdateFn: get,
		DeleteFn:           func(_ context.Context, id string) error { delete(f.rows, id); return nil },
		ListFn: func(context.Context) ([]domain.Activity, error) {
			var out []domain.Activity
			for _, a := range f.rows {
				out = append(out, a)
			}
			return out, nil
		},
	}
	notifs := &notificationmock.Repo{
		CreateBatchFn: func(_ context.Context, ns []notificationDomain.Notification) error {
			f.notes = append(f.notes, ns...)
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Activities: acts, Notifications: notifs})
	f.uc = NewUsecase(tx, acts, notification.NewFanout(nil, nil), nil, nil)
	return f
}

func baseInput() UpsertInput {
	return UpsertInput{
		Title: "Sports Fest", Target: "ao",
		StartDate: date(2024, 6, 3), EndDate: date(2024, 6, 5),
		RequiresAccomplishment: true, RequiresLiquidation: true,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture()

	out, err := f.uc.Create(context.Background(), organization.OSLD, baseInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TargetOrganization != organization.AO || out.OwnerOrganization != organization.OSLD {
		t.Fatalf("unexpected activity: %+v", out.Activity)
	}
	if len(out.Deadlines) != 2 || !out.Deadlines[0].DueDate.Equal(date(2024, 6, 10)) || !out.Deadlines[1].DueDate.Equal(date(2024, 6, 14)) {
		t.Fatalf("unexpected deadlines: %+v", out.Deadlines)
	}
	// 8 roster notifications plus the due-date summary to AO
	if len(f.notes) != 9 {
		t.Fatalf("notifications = %d, want 9", len(f.notes))
	}
	if _, ok := f.rows[out.ID]; !ok {
		t.Fatal("activity not stored")
	}
}

func TestCreate_Broadcast(t *testing.T) {
	f := newFixture()
	in := baseInput()
	in.Target = "ALL"

	out, err := f.uc.Create(context.Background(), organization.OSLD, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TargetOrganization != organization.All || len(f.notes) != 8 {
		t.Fatalf("target=%s notes=%d", out.TargetOrganization, len(f.notes))
	}
}

func TestCreate_Validation(t *testing.T) {
	due := date(2024, 6, 20)
	tests := []struct {
		name   string
		owner  organization.Code
		mutate func(*UpsertInput)
		want   error
	}{
		{"unknown owner", "XYZ", nil, apperr.ErrRouting},
		{"unknown target", organization.OSLD, func(in *UpsertInput) { in.Target = "NOPE" }, apperr.ErrRouting},
		{"missing title", organization.OSLD, func(in *UpsertInput) { in.Title = " " }, apperr.ErrValidation},
		{"end before start", organization.OSLD, func(in *UpsertInput) { in.EndDate = date(2024, 6, 1) }, apperr.ErrValidation},
		{"missing dates", organization.OSLD, func(in *UpsertInput) { in.StartDate = time.Time{} }, apperr.ErrValidation},
		{"override for unrequired kind", organization.OSLD, func(in *UpsertInput) {
			in.RequiresLiquidation = false
			in.LiquidationDue = &due
		}, apperr.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := baseInput()
			if tc.mutate != nil {
				tc.mutate(&in)
			}
			if _, err := f.uc.Create(context.Background(), tc.owner, in); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
			if len(f.rows) != 0 || len(f.notes) != 0 {
				t.Fatal("nothing may be written on failure")
			}
		})
	}
}

func TestEdit_ReplacesOverridesAndRegeneratesDeadlines(t *testing.T) {
	f := newFixture()
	in := baseInput()
	override := date(2024, 6, 21)
	in.AccomplishmentDue = &override
	created, err := f.uc.Create(context.Background(), organization.OSLD, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Deadlines[0].IsOverridden {
		t.Fatal("override not applied on create")
	}

	edit := baseInput()
	edit.EndDate = date(2024, 6, 7)
	out, err := f.uc.Edit(context.Background(), created.ID, organization.OSLD, edit)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if out.Deadlines[0].IsOverridden || !out.Deadlines[0].DueDate.Equal(date(2024, 6, 12)) {
		t.Fatalf("deadline not regenerated: %+v", out.Deadlines[0])
	}

	if _, err := f.uc.Edit(context.Background(), created.ID, organization.AO, edit); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-owner edit: %v", err)
	}
	if _, err := f.uc.Edit(context.Background(), "missing", organization.OSLD, edit); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing edit: %v", err)
	}
}

func TestDeleteGetList(t *testing.T) {
	seed := domain.Activity{ID: "ACT-1", Title: "Gala", OwnerOrganization: organization.LCO, TargetOrganization: organization.AO, RequiresLiquidation: true}
	f := newFixture(seed)
	ctx := context.Background()

	got, err := f.uc.Get(ctx, "ACT-1")
	if err != nil || len(got.Deadlines) != 1 || got.Deadlines[0].Kind != submission.KindLiquidation {
		t.Fatalf("get: %+v %v", got, err)
	}
	list, err := f.uc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}

	if err := f.uc.Delete(ctx, "ACT-1", organization.AO); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-owner delete: %v", err)
	}
	if err := f.uc.Delete(ctx, "ACT-1", organization.LCO); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.uc.Get(ctx, "ACT-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}
