package mysql

import (
	"testing"
	"time"

	activityDomain "compliance-portal/internal/domain/activity"
	notificationDomain "compliance-portal/internal/domain/notification"
	orgDomain "compliance-portal/internal/domain/organization"
	submissionDomain "compliance-portal/internal/domain/submission"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema. One
// connection only: every sqlite :memory: connection is its own database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&orgDomain.Organization{},
		&activityDomain.Activity{},
		&submissionDomain.Submission{},
		&notificationDomain.Notification{},
		&notificationDomain.NotificationRead{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func makeSubmission(id string, origin orgDomain.Code, title string, kind submissionDomain.Kind, st submissionDomain.Status, at time.Time) *submissionDomain.Submission {
	return &submissionDomain.Submission{
		ID:                   id,
		OrganizationOfOrigin: origin,
		Kind:                 kind,
		ActivityTitle:        title,
		SubmittedTo:          orgDomain.LCO,
		Status:               st,
		SubmittedAt:          at.UTC(),
	}
}

func makeActivity(id, title string) *activityDomain.Activity {
	return &activityDomain.Activity{
		ID:                     id,
		Title:                  title,
		OwnerOrganization:      orgDomain.OSLD,
		TargetOrganization:     orgDomain.AO,
		StartDate:              datatypes.Date(day(2024, 6, 3)),
		EndDate:                datatypes.Date(day(2024, 6, 5)),
		RequiresAccomplishment: true,
	}
}
