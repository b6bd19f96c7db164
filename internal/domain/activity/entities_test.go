package activity

import (
	"errors"
	"testing"
	"time"

	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"

	"gorm.io/datatypes"
)

func day(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestRequiredKinds(t *testing.T) {
	a := &Activity{RequiresLiquidation: true}
	got := a.RequiredKinds()
	if len(got) != 1 || got[0] != submission.KindLiquidation {
		t.Fatalf("RequiredKinds = %v", got)
	}
	a.RequiresAccomplishment = true
	if got := a.RequiredKinds(); len(got) != 2 || got[0] != submission.KindAccomplishment {
		t.Fatalf("RequiredKinds = %v", got)
	}
	if a.Requires(submission.KindAppeal) {
		t.Fatal("appeals never carry deadlines")
	}
}

func TestOverride(t *testing.T) {
	a := &Activity{}
	if _, ok := a.Override(submission.KindAccomplishment); ok {
		t.Fatal("no override expected")
	}
	due := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	if err := a.SetOverride(submission.KindAccomplishment, due); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	got, ok := a.Override(submission.KindAccomplishment)
	if !ok || !got.Equal(due) {
		t.Fatalf("Override = %v,%v", got, ok)
	}
	if _, ok := a.Override(submission.KindLiquidation); ok {
		t.Fatal("override leaked to the other kind")
	}
	if err := a.SetOverride(submission.KindRequestToConduct, due); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Activity{
		Title:              "Sports Fest",
		OwnerOrganization:  organization.OSLD,
		TargetOrganization: organization.AO,
		StartDate:          day(2024, 6, 1),
		EndDate:            day(2024, 6, 5),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid activity rejected: %v", err)
	}

	all := base
	all.TargetOrganization = organization.All
	if err := all.Validate(); err != nil {
		t.Fatalf("ALL target rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(a *Activity)
		kind   error
	}{
		{"no title", func(a *Activity) { a.Title = "" }, apperr.ErrValidation},
		{"bad owner", func(a *Activity) { a.OwnerOrganization = "XYZ" }, apperr.ErrRouting},
		{"bad target", func(a *Activity) { a.TargetOrganization = "XYZ" }, apperr.ErrRouting},
		{"reversed dates", func(a *Activity) { a.EndDate = day(2024, 5, 1) }, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base
			tt.mutate(&a)
			if err := a.Validate(); !errors.Is(err, tt.kind) {
				t.Fatalf("Validate = %v, want %v", err, tt.kind)
			}
		})
	}
}
