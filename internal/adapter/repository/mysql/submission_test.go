package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/audit"
	orgDomain "compliance-portal/internal/domain/organization"
	submissionDomain "compliance-portal/internal/domain/submission"

	"gorm.io/gorm"
)

func TestSubmission_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	url := "https://files.example.com/ar.pdf"
	in := makeSubmission("S-1", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))
	in.FileURL = &url
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, "S-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OrganizationOfOrigin != orgDomain.AO || got.Kind != submissionDomain.KindAccomplishment || got.FileURL == nil || *got.FileURL != url {
		t.Fatalf("unexpected row: %+v", got)
	}
	if !got.SubmittedAt.Equal(day(2024, 6, 6)) {
		t.Fatalf("SubmittedAt not preserved: %v", got.SubmittedAt)
	}

	if _, err := repo.GetByIDForUpdate(ctx, "NOPE"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSubmission_LatestForRevision(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	rows := []*submissionDomain.Submission{
		makeSubmission("A", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusForRevision, day(2024, 6, 6)),
		makeSubmission("B", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusForRevision, day(2024, 6, 8)),
		makeSubmission("C", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 9)),
		makeSubmission("D", orgDomain.AO, "Sports Fest", submissionDomain.KindLiquidation, submissionDomain.StatusForRevision, day(2024, 6, 10)),
		makeSubmission("E", orgDomain.LSG, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusForRevision, day(2024, 6, 11)),
	}
	for _, s := range rows {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create %s: %v", s.ID, err)
		}
	}

	got, err := repo.LatestForRevision(ctx, orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment)
	if err != nil {
		t.Fatalf("LatestForRevision: %v", err)
	}
	if got.ID != "B" {
		t.Fatalf("latest = %s, want B", got.ID)
	}

	_, err = repo.LatestForRevision(ctx, orgDomain.AO, "Gala", submissionDomain.KindAccomplishment)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSubmission_HasApproval(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	ok, err := repo.HasApproval(ctx, orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment)
	if err != nil || ok {
		t.Fatalf("empty table: ok=%v err=%v", ok, err)
	}

	// a record that was approved and later sent back still counts
	lco := orgDomain.LCO
	sent := makeSubmission("A", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusForRevision, day(2024, 6, 6))
	sent.ApprovedBy = &lco
	if err := repo.Create(ctx, sent); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err = repo.HasApproval(ctx, orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment)
	if err != nil || !ok {
		t.Fatalf("approved_by record: ok=%v err=%v", ok, err)
	}

	deleted := makeSubmission("B", orgDomain.AO, "Gala", submissionDomain.KindLiquidation, submissionDomain.StatusDeletedPreviouslyApproved, day(2024, 6, 6))
	if err := repo.Create(ctx, deleted); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err = repo.HasApproval(ctx, orgDomain.AO, "Gala", submissionDomain.KindLiquidation)
	if err != nil || !ok {
		t.Fatalf("soft-deleted approval: ok=%v err=%v", ok, err)
	}
	ok, _ = repo.HasApproval(ctx, orgDomain.LSG, "Gala", submissionDomain.KindLiquidation)
	if ok {
		t.Fatal("approval leaked across organizations")
	}
}

func TestSubmission_UpdateIfStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	url := "https://files.example.com/x.pdf"
	s := makeSubmission("S-1", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusApproved, day(2024, 6, 6))
	s.FileURL = &url
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SoftDelete(); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := repo.UpdateIfStatus(ctx, s, submissionDomain.StatusApproved); err != nil {
		t.Fatalf("UpdateIfStatus: %v", err)
	}
	got, _ := repo.GetByID(ctx, "S-1")
	if got.Status != submissionDomain.StatusDeletedPreviouslyApproved || got.FileURL != nil {
		t.Fatalf("nulls not written: %+v", got)
	}

	// stale expectation loses the race
	err := repo.UpdateIfStatus(ctx, s, submissionDomain.StatusApproved)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSubmission_Delete(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeSubmission("S-1", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusRejected, day(2024, 6, 6))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, "S-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "S-1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("row survived a hard delete: %v", err)
	}
}

func TestSubmission_ListForActivity(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	linked := "ACT-1"
	other := "ACT-2"
	a := makeSubmission("A", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))
	b := makeSubmission("B", orgDomain.AO, "Renamed Fest", submissionDomain.KindLiquidation, submissionDomain.StatusPending, day(2024, 6, 7))
	b.LinkedActivityID = &linked
	c := makeSubmission("C", orgDomain.AO, "Sports Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 8))
	c.LinkedActivityID = &other
	for _, s := range []*submissionDomain.Submission{a, b, c} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListForActivity(ctx, "ACT-1", "Sports Fest")
	if err != nil {
		t.Fatalf("ListForActivity: %v", err)
	}
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "B" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestSubmission_ListVisible(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	a := makeSubmission("A", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))
	b := makeSubmission("B", orgDomain.LSG, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 7))
	b.SubmittedTo = orgDomain.USG
	c := makeSubmission("C", orgDomain.LCO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 8))
	c.SubmittedTo = orgDomain.COA
	for _, s := range []*submissionDomain.Submission{a, b, c} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListVisible(ctx, submissionDomain.Scope{Origins: []orgDomain.Code{orgDomain.LCO}, Reviewers: []orgDomain.Code{orgDomain.LCO}})
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "C" {
		t.Fatalf("unexpected rows: %+v", got)
	}

	got, _ = repo.ListVisible(ctx, submissionDomain.Scope{Reviewers: []orgDomain.Code{orgDomain.USG}})
	if len(got) != 1 || got[0].ID != "B" {
		t.Fatalf("reviewer-only scope: %+v", got)
	}
	got, _ = repo.ListVisible(ctx, submissionDomain.Scope{})
	if len(got) != 0 {
		t.Fatalf("empty scope must see nothing: %+v", got)
	}
}

func TestSubmission_CountAuditClassified(t *testing.T) {
	db := openTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	stamp := func(s *submissionDomain.Submission, at time.Time) {
		a := audit.Classify(at)
		at = at.UTC()
		s.AuditSemester, s.AuditPhase, s.AuditReviewedAt = &a.Semester, &a.Phase, &at
	}
	a := makeSubmission("A", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusApproved, day(2024, 2, 1))
	stamp(a, day(2024, 3, 1))
	b := makeSubmission("B", orgDomain.AO, "Gala", submissionDomain.KindLiquidation, submissionDomain.StatusApproved, day(2023, 11, 1))
	stamp(b, day(2023, 12, 1))
	c := makeSubmission("C", orgDomain.AO, "Fair", submissionDomain.KindLiquidation, submissionDomain.StatusApproved, day(2024, 4, 1))
	for _, s := range []*submissionDomain.Submission{a, b, c} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	from, to := audit.YearBounds(day(2024, 7, 1))
	n, err := repo.CountAuditClassified(ctx, orgDomain.AO, from, to)
	if err != nil {
		t.Fatalf("CountAuditClassified: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}
