package mysql

import (
	"context"

	activityDomain "compliance-portal/internal/domain/activity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Create(ctx context.Context, a *activityDomain.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) Save(ctx context.Context, a *activityDomain.Activity) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*activityDomain.Activity, error) {
	var out activityDomain.Activity
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ActivityRepository) GetByIDForUpdate(ctx context.Context, id string) (*activityDomain.Activity, error) {
	var out activityDomain.Activity
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&activityDomain.Activity{}).Error
}

func (r *ActivityRepository) List(ctx context.Context) ([]activityDomain.Activity, error) {
	var out []activityDomain.Activity
	err := r.db.WithContext(ctx).Order("end_date ASC, id ASC").Find(&out).Error
	return out, err
}
