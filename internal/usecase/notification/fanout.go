package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/deadline"
	domain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/infrastructure/metrics"
	"compliance-portal/pkg/id"
)

// Event labels used for metrics.
const (
	EventNewActivity      = "new_activity"
	EventDueSummary       = "due_summary"
	EventSubmission       = "submission"
	EventStatusChange     = "status_change"
	EventDeadlineExtended = "deadline_extended"
)

// Fanout turns one domain event into notification rows. Rows are written
// through the repository it is handed, so they land in the caller's
// transaction. Every call draws a fresh source event id and never emits two
// rows for the same target.
type Fanout struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewFanout(now func() time.Time, m *metrics.Metrics) *Fanout {
	if now == nil {
		now = time.Now
	}
	return &Fanout{now: now, metrics: m}
}

type draft struct {
	target      organization.Code
	title       string
	description string
}

func (f *Fanout) emit(ctx context.Context, repo domain.Repository, event string, actor organization.Code, drafts []draft) ([]domain.Notification, error) {
	source := id.NewEventID()
	at := f.now().UTC()
	seen := map[organization.Code]bool{}
	out := make([]domain.Notification, 0, len(drafts))
	for _, d := range drafts {
		if seen[d.target] {
			continue
		}
		seen[d.target] = true
		out = append(out, domain.Notification{
			ID:                 id.NewID32(),
			SourceEventID:      source,
			Title:              d.title,
			Description:        d.description,
			CreatedBy:          actor,
			TargetOrganization: d.target,
			CreatedAt:          at,
		})
	}
	if err := repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	f.metrics.Notified(event, len(out))
	return out, nil
}

// NewActivity notifies every roster organization except the creator. When the
// activity owes a report and targets one organization, that organization also
// gets a summary of its due dates.
func (f *Fanout) NewActivity(ctx context.Context, repo domain.Repository, a *activity.Activity, creator organization.Code) ([]domain.Notification, error) {
	var drafts []draft
	for _, org := range organization.Roster() {
		if org == creator {
			continue
		}
		drafts = append(drafts, draft{
			target:      org,
			title:       "New activity: " + a.Title,
			description: fmt.Sprintf("%s scheduled %s from %s to %s.", creator, a.Title, a.Start().Format(time.DateOnly), a.End().Format(time.DateOnly)),
		})
	}
	out, err := f.emit(ctx, repo, EventNewActivity, creator, drafts)
	if err != nil {
		return nil, err
	}

	kinds := a.RequiredKinds()
	if len(kinds) == 0 || a.TargetOrganization == organization.All || a.TargetOrganization == creator {
		return out, nil
	}
	lines := make([]string, 0, len(kinds))
	for _, k := range kinds {
		due, _ := deadline.Due(a, k)
		lines = append(lines, fmt.Sprintf("%s due %s", k, due.Format(time.DateOnly)))
	}
	summary, err := f.emit(ctx, repo, EventDueSummary, creator, []draft{{
		target:      a.TargetOrganization,
		title:       "Report deadlines: " + a.Title,
		description: strings.Join(lines, "; "),
	}})
	if err != nil {
		return nil, err
	}
	return append(out, summary...), nil
}

// SubmissionEvent tells the reviewer a submission is waiting for it.
func (f *Fanout) SubmissionEvent(ctx context.Context, repo domain.Repository, s *submission.Submission) ([]domain.Notification, error) {
	return f.emit(ctx, repo, EventSubmission, s.OrganizationOfOrigin, []draft{{
		target:      s.SubmittedTo,
		title:       fmt.Sprintf("New %s from %s", s.Kind, s.OrganizationOfOrigin),
		description: s.ActivityTitle,
	}})
}

// StatusChange tells the origin its submission moved. Nothing is sent when
// the origin acted itself.
func (f *Fanout) StatusChange(ctx context.Context, repo domain.Repository, s *submission.Submission, actor organization.Code) ([]domain.Notification, error) {
	if s.OrganizationOfOrigin == actor {
		return nil, nil
	}
	desc := s.ActivityTitle
	switch {
	case s.Status == submission.StatusForRevision && s.RevisionReason != nil:
		desc += ": " + *s.RevisionReason
	case s.Status == submission.StatusRejected && s.RejectionReason != nil:
		desc += ": " + *s.RejectionReason
	}
	return f.emit(ctx, repo, EventStatusChange, actor, []draft{{
		target:      s.OrganizationOfOrigin,
		title:       fmt.Sprintf("%s %s by %s", s.Kind, s.Status, actor),
		description: desc,
	}})
}

// DeadlineExtended tells an appellant its new due date.
func (f *Fanout) DeadlineExtended(ctx context.Context, repo domain.Repository, a *activity.Activity, kind submission.Kind, due time.Time, appellant, reviewer organization.Code) ([]domain.Notification, error) {
	return f.emit(ctx, repo, EventDeadlineExtended, reviewer, []draft{{
		target:      appellant,
		title:       "Appeal approved: " + a.Title,
		description: fmt.Sprintf("%s now due %s", kind, due.Format(time.DateOnly)),
	}})
}
