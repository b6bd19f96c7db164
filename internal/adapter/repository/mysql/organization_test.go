package mysql

import (
	"context"
	"errors"
	"testing"

	orgDomain "compliance-portal/internal/domain/organization"

	"gorm.io/gorm"
)

func TestOrganization_EnsureRosterIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	if err := repo.EnsureRoster(ctx, orgDomain.DefaultProfiles()); err != nil {
		t.Fatalf("EnsureRoster: %v", err)
	}
	if err := repo.SetHold(ctx, orgDomain.AO, true); err != nil {
		t.Fatalf("SetHold: %v", err)
	}
	// second seed must not reset existing rows
	if err := repo.EnsureRoster(ctx, orgDomain.DefaultProfiles()); err != nil {
		t.Fatalf("EnsureRoster again: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != len(orgDomain.Roster()) {
		t.Fatalf("got %d organizations, want %d", len(all), len(orgDomain.Roster()))
	}
	ao, err := repo.GetByCode(ctx, orgDomain.AO)
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if !ao.OnHold {
		t.Fatal("hold flag was overwritten by the second seed")
	}
}

func TestOrganization_SetHoldUnknown(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrganizationRepository(db)

	err := repo.SetHold(context.Background(), orgDomain.Code("XYZ"), true)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
