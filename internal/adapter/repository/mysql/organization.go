package mysql

import (
	"context"

	orgDomain "compliance-portal/internal/domain/organization"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrganizationRepository struct{ db *gorm.DB }

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) List(ctx context.Context) ([]orgDomain.Organization, error) {
	var out []orgDomain.Organization
	err := r.db.WithContext(ctx).Order("code ASC").Find(&out).Error
	return out, err
}

func (r *OrganizationRepository) GetByCode(ctx context.Context, code orgDomain.Code) (*orgDomain.Organization, error) {
	var out orgDomain.Organization
	res := r.db.WithContext(ctx).Where("code = ?", code).First(&out)
	return &out, res.Error
}

func (r *OrganizationRepository) EnsureRoster(ctx context.Context, orgs []orgDomain.Organization) error {
	if len(orgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&orgs).Error
}

func (r *OrganizationRepository) SetHold(ctx context.Context, code orgDomain.Code, onHold bool) error {
	res := r.db.WithContext(ctx).Model(&orgDomain.Organization{}).
		Where("code = ?", code).
		Update("on_hold", onHold)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
