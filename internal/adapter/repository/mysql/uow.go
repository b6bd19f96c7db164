package mysql

import (
	"context"

	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Organizations: &OrganizationRepository{db: tx},
		Activities:    &ActivityRepository{db: tx},
		Submissions:   &SubmissionRepository{db: tx},
		Notifications: &NotificationRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinSubmissionTx(ctx context.Context, submissionID string, fn func(r uow.Repos, s *submission.Submission) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the submission row up-front to prevent races
		s, err := r.Submissions.GetByIDForUpdate(ctx, submissionID)
		if err != nil {
			return err
		}
		return fn(r, s)
	})
}
