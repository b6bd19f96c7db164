package activity

import (
	"context"
	"time"

	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"

	"gorm.io/datatypes"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "activity not found")

// Activity is a unit of work whose end date drives report deadlines.
type Activity struct {
	ID                     string            `gorm:"column:id;primaryKey;size:32" json:"id"`
	Title                  string            `gorm:"column:title;size:255;not null;index" json:"title"`
	Description            string            `gorm:"column:description;type:text" json:"description,omitempty"`
	OwnerOrganization      organization.Code `gorm:"column:owner_organization;size:8;not null;index" json:"owner_organization"`
	TargetOrganization     organization.Code `gorm:"column:target_organization;size:8;not null;index" json:"target_organization"`
	StartDate              datatypes.Date    `gorm:"column:start_date;not null" json:"start_date"`
	EndDate                datatypes.Date    `gorm:"column:end_date;not null" json:"end_date"`
	RequiresAccomplishment bool              `gorm:"column:requires_accomplishment;not null;default:false" json:"requires_accomplishment"`
	RequiresLiquidation    bool              `gorm:"column:requires_liquidation;not null;default:false" json:"requires_liquidation"`
	AccomplishmentDue      *datatypes.Date   `gorm:"column:accomplishment_due" json:"accomplishment_due,omitempty"`
	LiquidationDue         *datatypes.Date   `gorm:"column:liquidation_due" json:"liquidation_due,omitempty"`
	CreatedAt              time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Activity) TableName() string { return "activities" }

func (a *Activity) Start() time.Time { return time.Time(a.StartDate) }
func (a *Activity) End() time.Time   { return time.Time(a.EndDate) }

// Requires reports whether the activity obliges its target to file kind.
func (a *Activity) Requires(kind submission.Kind) bool {
	switch kind {
	case submission.KindAccomplishment:
		return a.RequiresAccomplishment
	case submission.KindLiquidation:
		return a.RequiresLiquidation
	}
	return false
}

// RequiredKinds lists the report kinds in a stable order.
func (a *Activity) RequiredKinds() []submission.Kind {
	var out []submission.Kind
	for _, k := range []submission.Kind{submission.KindAccomplishment, submission.KindLiquidation} {
		if a.Requires(k) {
			out = append(out, k)
		}
	}
	return out
}

// Override returns the manually set due date for kind, if any.
func (a *Activity) Override(kind submission.Kind) (time.Time, bool) {
	var d *datatypes.Date
	switch kind {
	case submission.KindAccomplishment:
		d = a.AccomplishmentDue
	case submission.KindLiquidation:
		d = a.LiquidationDue
	}
	if d == nil {
		return time.Time{}, false
	}
	return time.Time(*d), true
}

func (a *Activity) SetOverride(kind submission.Kind, due time.Time) error {
	d := datatypes.Date(due)
	switch kind {
	case submission.KindAccomplishment:
		a.AccomplishmentDue = &d
	case submission.KindLiquidation:
		a.LiquidationDue = &d
	default:
		return apperr.Validation("kind %q has no deadline", kind)
	}
	return nil
}

func (a *Activity) Validate() error {
	switch {
	case a.Title == "":
		return apperr.Validation("title is required")
	case !a.OwnerOrganization.Known():
		return apperr.Routing("unknown owner organization %q", a.OwnerOrganization)
	case a.TargetOrganization != organization.All && !a.TargetOrganization.Known():
		return apperr.Routing("unknown target organization %q", a.TargetOrganization)
	case a.End().Before(a.Start()):
		return apperr.Validation("end date precedes start date")
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	Save(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id string) (*Activity, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Activity, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Activity, error)
}
