package mysql

import (
	"context"
	"errors"
	"testing"

	"compliance-portal/internal/domain/apperr"
	notificationDomain "compliance-portal/internal/domain/notification"
	orgDomain "compliance-portal/internal/domain/organization"
	submissionDomain "compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	subRepo := NewSubmissionRepository(db)
	notifRepo := NewNotificationRepository(db)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Submissions.Create(ctx, makeSubmission("S-COMMIT", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))); err != nil {
			return err
		}
		return r.Notifications.CreateBatch(ctx, []notificationDomain.Notification{
			{ID: "N-COMMIT", SourceEventID: "EV", Title: "t", CreatedBy: orgDomain.AO, TargetOrganization: orgDomain.LCO},
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := subRepo.GetByID(ctx, "S-COMMIT"); err != nil {
		t.Fatalf("submission not visible after commit: %v", err)
	}
	if _, err := notifRepo.GetByID(ctx, "N-COMMIT"); err != nil {
		t.Fatalf("notification not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	subRepo := NewSubmissionRepository(db)
	notifRepo := NewNotificationRepository(db)

	sentinel := errors.New("boom")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Submissions.Create(ctx, makeSubmission("S-ROLL", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))); err != nil {
			return err
		}
		if err := r.Notifications.CreateBatch(ctx, []notificationDomain.Notification{
			{ID: "N-ROLL", SourceEventID: "EV", Title: "t", CreatedBy: orgDomain.AO, TargetOrganization: orgDomain.LCO},
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if _, err := subRepo.GetByID(ctx, "S-ROLL"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected submission not found after rollback, got %v", err)
	}
	if _, err := notifRepo.GetByID(ctx, "N-ROLL"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected notification not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinSubmissionTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	subRepo := NewSubmissionRepository(db)

	if err := subRepo.Create(ctx, makeSubmission("S-TARGET", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := guow.WithinSubmissionTx(ctx, "S-TARGET", func(r uow.Repos, s *submissionDomain.Submission) error {
		if s == nil || s.ID != "S-TARGET" || s.Status != submissionDomain.StatusPending {
			t.Fatalf("unexpected submission passed to fn: %+v", s)
		}
		if err := s.Approve(orgDomain.LCO); err != nil {
			return err
		}
		return r.Submissions.UpdateIfStatus(ctx, s, submissionDomain.StatusPending)
	})
	if err != nil {
		t.Fatalf("WithinSubmissionTx commit err: %v", err)
	}

	got, _ := subRepo.GetByID(ctx, "S-TARGET")
	if got.Status != submissionDomain.StatusApproved || got.ApprovedBy == nil || *got.ApprovedBy != orgDomain.LCO {
		t.Fatalf("approval not persisted: %+v", got)
	}
}

func TestGormUoW_WithinSubmissionTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	subRepo := NewSubmissionRepository(db)

	if err := subRepo.Create(ctx, makeSubmission("S-RB", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinSubmissionTx(ctx, "S-RB", func(r uow.Repos, s *submissionDomain.Submission) error {
		if err := s.Reject("late"); err != nil {
			return err
		}
		if err := r.Submissions.UpdateIfStatus(ctx, s, submissionDomain.StatusPending); err != nil {
			return err
		}
		return sentinel
	})

	got, _ := subRepo.GetByID(ctx, "S-RB")
	if got.Status != submissionDomain.StatusPending {
		t.Fatalf("status changed despite rollback: %s", got.Status)
	}
}

func TestGormUoW_WithinSubmissionTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	called := false
	err := guow.WithinSubmissionTx(context.Background(), "MISSING", func(uow.Repos, *submissionDomain.Submission) error {
		called = true
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if called {
		t.Fatal("fn must not run when the row is missing")
	}
}

func TestGormUoW_StaleWriteConflicts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	subRepo := NewSubmissionRepository(db)
	if err := subRepo.Create(ctx, makeSubmission("S-RACE", orgDomain.AO, "Fest", submissionDomain.KindAccomplishment, submissionDomain.StatusPending, day(2024, 6, 6))); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// a stale copy read before another reviewer approved the row
	stale, _ := subRepo.GetByID(ctx, "S-RACE")
	if err := guow.WithinSubmissionTx(ctx, "S-RACE", func(r uow.Repos, s *submissionDomain.Submission) error {
		_ = s.Approve(orgDomain.LCO)
		return r.Submissions.UpdateIfStatus(ctx, s, submissionDomain.StatusPending)
	}); err != nil {
		t.Fatalf("first writer: %v", err)
	}

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		_ = stale.Reject("dup")
		return r.Submissions.UpdateIfStatus(ctx, stale, submissionDomain.StatusPending)
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
