// Package deadline derives report deadlines from activities. Deadlines are
// never stored; they are recomputed from the activity, its overrides and the
// submissions correlated with it.
package deadline

import (
	"sort"
	"time"

	"compliance-portal/internal/domain/activity"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/routing"
	"compliance-portal/internal/domain/submission"
	"compliance-portal/pkg/workday"
)

const (
	AccomplishmentOffset = 3 // working days after the end date
	LiquidationOffset    = 7
)

// ViewerRelation tells the inbox which call to action a viewer gets for a
// pending submission.
type ViewerRelation string

const (
	RelationNone      ViewerRelation = "none"
	RelationSubmitter ViewerRelation = "submitter"
	RelationReviewer  ViewerRelation = "reviewer"
	RelationMonitor   ViewerRelation = "monitor"
)

type Record struct {
	ActivityID         string            `json:"activity_id"`
	ActivityTitle      string            `json:"activity_title"`
	Kind               submission.Kind   `json:"kind"`
	DueDate            time.Time         `json:"due_date"`
	IsOverridden       bool              `json:"is_overridden"`
	TargetOrganization organization.Code `json:"target_organization"`
	Pending            bool              `json:"pending"`
	PendingID          string            `json:"pending_submission_id,omitempty"`
	Relation           ViewerRelation    `json:"relation"`
}

func Offset(kind submission.Kind) (int, bool) {
	switch kind {
	case submission.KindAccomplishment:
		return AccomplishmentOffset, true
	case submission.KindLiquidation:
		return LiquidationOffset, true
	}
	return 0, false
}

// Due is the current deadline of kind for a: the override when set, else the
// end date plus the kind's working-day offset.
func Due(a *activity.Activity, kind submission.Kind) (time.Time, bool) {
	if d, ok := a.Override(kind); ok {
		return workday.Truncate(d), true
	}
	off, _ := Offset(kind)
	return workday.AddWorkingDays(a.End(), off), false
}

// Targets expands an activity's target into the organizations that owe reports.
func Targets(a *activity.Activity) []organization.Code {
	if a.TargetOrganization == organization.All {
		return organization.Submitters()
	}
	return []organization.Code{a.TargetOrganization}
}

type Input struct {
	Activity *activity.Activity
	Target   organization.Code
	Viewer   organization.Code
	// Submissions correlated with Activity; others are ignored.
	Submissions []submission.Submission
}

// Derive returns at most one record per required report kind owed by Target.
// A kind is suppressed once Target's own submission for it is approved, even
// if that approval was later soft-deleted. Approvals filed by any other
// organization leave the obligation in place.
func Derive(in Input) []Record {
	a := in.Activity
	var out []Record
	for _, kind := range a.RequiredKinds() {
		related := correlated(in.Submissions, a, kind)
		if satisfied(related, in.Target) {
			continue
		}
		due, overridden := Due(a, kind)
		r := Record{
			ActivityID:         a.ID,
			ActivityTitle:      a.Title,
			Kind:               kind,
			DueDate:            due,
			IsOverridden:       overridden,
			TargetOrganization: in.Target,
			Relation:           RelationNone,
		}
		if p := latestPending(related, in.Target, kind); p != nil {
			r.Pending = true
			r.PendingID = p.ID
			r.Relation = Relate(in.Viewer, p)
		}
		out = append(out, r)
	}
	return out
}

// Relate classifies viewer against a pending submission. At most one relation holds.
func Relate(viewer organization.Code, p *submission.Submission) ViewerRelation {
	switch {
	case viewer == p.OrganizationOfOrigin:
		return RelationSubmitter
	case viewer == p.SubmittedTo:
		return RelationReviewer
	}
	if parent, ok := routing.Parent(p.SubmittedTo, p.Kind); ok && parent == viewer {
		return RelationMonitor
	}
	return RelationNone
}

func correlated(subs []submission.Submission, a *activity.Activity, kind submission.Kind) []submission.Submission {
	var out []submission.Submission
	for _, s := range subs {
		if s.Kind == kind && s.Correlates(a.ID, a.Title) {
			out = append(out, s)
		}
	}
	return out
}

func satisfied(subs []submission.Submission, target organization.Code) bool {
	for i := range subs {
		if subs[i].OrganizationOfOrigin == target && subs[i].SatisfiesDeadline() {
			return true
		}
	}
	return false
}

// latestPending picks the newest Pending record filed by the target or by the
// organization the target escalates to.
func latestPending(subs []submission.Submission, target organization.Code, kind submission.Kind) *submission.Submission {
	escalation, _ := routing.Parent(target, kind)
	var cands []submission.Submission
	for _, s := range subs {
		if s.Status != submission.StatusPending {
			continue
		}
		if s.OrganizationOfOrigin == target || (escalation != "" && s.OrganizationOfOrigin == escalation) {
			cands = append(cands, s)
		}
	}
	if len(cands) == 0 {
		return nil
	}
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].SubmittedAt.Equal(cands[j].SubmittedAt) {
			return cands[i].SubmittedAt.After(cands[j].SubmittedAt)
		}
		return cands[i].ID > cands[j].ID
	})
	return &cands[0]
}
