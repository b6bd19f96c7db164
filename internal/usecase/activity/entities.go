package activity

import (
	"time"

	domain "compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/submission"
)

type UpsertInput struct {
	Title                  string     `json:"title"`
	Description            string     `json:"description"`
	Target                 string     `json:"target_organization"`
	StartDate              time.Time  `json:"start_date"`
	EndDate                time.Time  `json:"end_date"`
	RequiresAccomplishment bool       `json:"requires_accomplishment"`
	RequiresLiquidation    bool       `json:"requires_liquidation"`
	AccomplishmentDue      *time.Time `json:"accomplishment_due"`
	LiquidationDue         *time.Time `json:"liquidation_due"`
}

type DueDTO struct {
	Kind         submission.Kind `json:"kind"`
	DueDate      time.Time       `json:"due_date"`
	IsOverridden bool            `json:"is_overridden"`
}

type ActivityDTO struct {
	domain.Activity
	Deadlines []DueDTO `json:"deadlines"`
}
