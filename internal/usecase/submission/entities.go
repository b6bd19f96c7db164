package submission

import (
	"compliance-portal/internal/domain/audit"
	"compliance-portal/internal/domain/organization"
	domain "compliance-portal/internal/domain/submission"
)

type SubmitInput struct {
	// ID is optional; a repeated id replays the stored record.
	ID               string            `json:"id"`
	Origin           organization.Code `json:"-"`
	Kind             domain.Kind       `json:"kind"`
	ActivityTitle    string            `json:"activity_title"`
	LinkedActivityID string            `json:"linked_activity_id"`
	FileURL          string            `json:"file_url"`
	FileName         string            `json:"file_name"`
	// Appeals only.
	CurrentReviewer organization.Code `json:"current_reviewer"`
	AppealKind      domain.Kind       `json:"appeal_kind"`
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionRevise  Decision = "revise"
)

type ReviewInput struct {
	SubmissionID string
	Reviewer     organization.Code
	Decision     Decision
	Reason       string
}

type DeleteOutcome string

const (
	OutcomeDeleted     DeleteOutcome = "deleted"
	OutcomeSoftDeleted DeleteOutcome = "soft_deleted"
	OutcomeUnchanged   DeleteOutcome = "unchanged"
)

type SubmissionDTO struct {
	domain.Submission
	AuditAssignment *audit.Assignment `json:"audit_assignment,omitempty"`
	// Replayed is set when Submit found the id already stored.
	Replayed bool `json:"replayed,omitempty"`
}

func toDTO(s *domain.Submission) *SubmissionDTO {
	return &SubmissionDTO{Submission: *s, AuditAssignment: s.Assignment()}
}
