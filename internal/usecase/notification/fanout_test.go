package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"compliance-portal/internal/domain/activity"
	domain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/testutil/notificationmock"

	"gorm.io/datatypes"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

func capture(store *[]domain.Notification) *notificationmock.Repo {
	return &notificationmock.Repo{
		CreateBatchFn: func(_ context.Context, ns []domain.Notification) error {
			*store = append(*store, ns...)
			return nil
		},
	}
}

func newActivity(target organization.Code, accomplishment, liquidation bool) *activity.Activity {
	return &activity.Activity{
		ID:                     "ACT-1",
		Title:                  "Sports Fest",
		OwnerOrganization:      organization.OSLD,
		TargetOrganization:     target,
		StartDate:              datatypes.Date(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)),
		EndDate:                datatypes.Date(time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)),
		RequiresAccomplishment: accomplishment,
		RequiresLiquidation:    liquidation,
	}
}

func targets(ns []domain.Notification) map[organization.Code]int {
	out := map[organization.Code]int{}
	for _, n := range ns {
		out[n.TargetOrganization]++
	}
	return out
}

func TestFanout_NewActivity(t *testing.T) {
	tests := []struct {
		name        string
		target      organization.Code
		acc, liq    bool
		wantTotal   int
		wantSummary bool
	}{
		{name: "single target with reports", target: organization.AO, acc: true, liq: true, wantTotal: 9, wantSummary: true},
		{name: "single target no reports", target: organization.AO, wantTotal: 8},
		{name: "broadcast skips summary", target: organization.All, acc: true, wantTotal: 8},
		{name: "creator as target skips summary", target: organization.OSLD, acc: true, wantTotal: 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []domain.Notification
			f := NewFanout(fixedNow, nil)
			out, err := f.NewActivity(context.Background(), capture(&got), newActivity(tc.target, tc.acc, tc.liq), organization.OSLD)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(out) != tc.wantTotal || len(got) != tc.wantTotal {
				t.Fatalf("got %d/%d notifications, want %d", len(out), len(got), tc.wantTotal)
			}
			per := targets(got)
			if per[organization.OSLD] != 0 {
				t.Fatal("creator must not be notified")
			}
			for _, org := range organization.Roster() {
				if org != organization.OSLD && per[org] == 0 {
					t.Fatalf("%s missing from roster fanout", org)
				}
			}
			summary := got[len(got)-1]
			isSummary := strings.HasPrefix(summary.Title, "Report deadlines")
			if isSummary != tc.wantSummary {
				t.Fatalf("summary present=%v, want %v", isSummary, tc.wantSummary)
			}
			if tc.wantSummary {
				if summary.TargetOrganization != tc.target {
					t.Fatalf("summary sent to %s", summary.TargetOrganization)
				}
				// end 2024-06-07 (Fri): +3 working days = 06-12, +7 = 06-18
				if !strings.Contains(summary.Description, "2024-06-12") || !strings.Contains(summary.Description, "2024-06-18") {
					t.Fatalf("summary lacks due dates: %q", summary.Description)
				}
				if summary.SourceEventID == got[0].SourceEventID {
					t.Fatal("summary must carry its own source event")
				}
			}
		})
	}
}

func TestFanout_SubmissionEvent(t *testing.T) {
	var got []domain.Notification
	f := NewFanout(fixedNow, nil)
	s := &submission.Submission{ID: "S-1", OrganizationOfOrigin: organization.AO, SubmittedTo: organization.LCO, Kind: submission.KindAccomplishment, ActivityTitle: "Sports Fest"}

	if _, err := f.SubmissionEvent(context.Background(), capture(&got), s); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].TargetOrganization != organization.LCO || got[0].CreatedBy != organization.AO {
		t.Fatalf("unexpected notifications: %+v", got)
	}
	if !got[0].CreatedAt.Equal(fixedNow()) {
		t.Fatalf("clock not used: %v", got[0].CreatedAt)
	}
}

func TestFanout_StatusChange(t *testing.T) {
	reason := "missing receipts"
	s := &submission.Submission{OrganizationOfOrigin: organization.AO, SubmittedTo: organization.LCO, Kind: submission.KindLiquidation, Status: submission.StatusForRevision, RevisionReason: &reason, ActivityTitle: "Fest"}

	var got []domain.Notification
	f := NewFanout(fixedNow, nil)
	if _, err := f.StatusChange(context.Background(), capture(&got), s, organization.LCO); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].TargetOrganization != organization.AO || !strings.Contains(got[0].Description, reason) {
		t.Fatalf("unexpected notifications: %+v", got)
	}

	got = nil
	out, err := f.StatusChange(context.Background(), capture(&got), s, organization.AO)
	if err != nil || out != nil || len(got) != 0 {
		t.Fatalf("self-action must not notify: out=%v err=%v", out, err)
	}
}

func TestFanout_PropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	repo := &notificationmock.Repo{CreateBatchFn: func(context.Context, []domain.Notification) error { return boom }}
	f := NewFanout(fixedNow, nil)

	_, err := f.NewActivity(context.Background(), repo, newActivity(organization.AO, true, false), organization.OSLD)
	if !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}
