package submission

import (
	"context"
	"time"

	"compliance-portal/internal/domain/organization"
)

// Scope selects the submissions one organization may see.
type Scope struct {
	Origins   []organization.Code
	Reviewers []organization.Code
}

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	// GetByIDForUpdate locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*Submission, error)

	// LatestForRevision locks and returns the most recent ForRevision record for
	// (origin, title, kind); gorm.ErrRecordNotFound when there is none.
	LatestForRevision(ctx context.Context, origin organization.Code, title string, kind Kind) (*Submission, error)
	// HasApproval reports whether any record for (origin, title, kind) was ever approved.
	HasApproval(ctx context.Context, origin organization.Code, title string, kind Kind) (bool, error)

	// UpdateIfStatus writes the mutable columns of s only while the stored
	// status still equals expected; otherwise it returns an apperr.ErrConflict.
	UpdateIfStatus(ctx context.Context, s *Submission, expected Status) error
	Delete(ctx context.Context, id string) error

	ListForActivity(ctx context.Context, activityID, title string) ([]Submission, error)
	ListVisible(ctx context.Context, scope Scope) ([]Submission, error)
	CountAuditClassified(ctx context.Context, origin organization.Code, from, to time.Time) (int64, error)
}
