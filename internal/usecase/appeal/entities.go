package appeal

import (
	"time"

	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
)

// ExtensionDays is how far an approved appeal pushes a deadline, in calendar days.
const ExtensionDays = 3

type ApproveInput struct {
	SubmissionID string
	ActivityID   string            `json:"activity_id"`
	Kind         submission.Kind   `json:"kind"`
	Appellant    organization.Code `json:"appellant"`
	Reviewer     organization.Code `json:"-"`
}

type RejectInput struct {
	SubmissionID string
	Reviewer     organization.Code `json:"-"`
	Reason       string            `json:"reason"`
}

type AppealDTO struct {
	Submission  submission.Submission `json:"submission"`
	ActivityID  string                `json:"activity_id,omitempty"`
	Kind        submission.Kind       `json:"kind,omitempty"`
	PreviousDue *time.Time            `json:"previous_due,omitempty"`
	NewDue      *time.Time            `json:"new_due,omitempty"`
}
