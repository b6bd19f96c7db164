package submission

import (
	"strings"
	"time"

	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/audit"
	"compliance-portal/internal/domain/organization"
)

type Kind string

const (
	KindRequestToConduct Kind = "request_to_conduct"
	KindAccomplishment   Kind = "accomplishment_report"
	KindLiquidation      Kind = "liquidation_report"
	KindAppeal           Kind = "letter_of_appeal"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRequestToConduct, KindAccomplishment, KindLiquidation, KindAppeal:
		return true
	}
	return false
}

// IsReport reports whether k is a post-activity report that carries a deadline.
func (k Kind) IsReport() bool { return k == KindAccomplishment || k == KindLiquidation }

func ParseKind(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	return k, k.Valid()
}

type Status string

const (
	StatusPending                   Status = "pending"
	StatusApproved                  Status = "approved"
	StatusRejected                  Status = "rejected"
	StatusForRevision               Status = "for_revision"
	StatusDeletedPreviouslyApproved Status = "deleted_previously_approved"
)

var (
	ErrNotFound          = apperr.New(apperr.ErrNotFound, "submission not found")
	ErrInvalidTransition = apperr.New(apperr.ErrValidation, "invalid status transition")
	ErrAlreadyClassified = apperr.New(apperr.ErrValidation, "submission already audit-classified")
	ErrReasonRequired    = apperr.New(apperr.ErrValidation, "a reason is required")
)

type Submission struct {
	ID                   string             `gorm:"column:id;primaryKey;size:32" json:"id"`
	OrganizationOfOrigin organization.Code  `gorm:"column:organization_of_origin;size:8;not null;index:idx_submissions_corr" json:"organization_of_origin"`
	Kind                 Kind               `gorm:"column:kind;size:32;not null;index:idx_submissions_corr" json:"kind"`
	ActivityTitle        string             `gorm:"column:activity_title;size:255;not null;index:idx_submissions_corr" json:"activity_title"`
	LinkedActivityID     *string            `gorm:"column:linked_activity_id;size:32;index" json:"linked_activity_id,omitempty"`
	SubmittedTo          organization.Code  `gorm:"column:submitted_to;size:8;not null;index" json:"submitted_to"`
	ApprovedBy           *organization.Code `gorm:"column:approved_by;size:8" json:"approved_by,omitempty"`
	Status               Status             `gorm:"column:status;size:40;not null;index" json:"status"`
	FileURL              *string            `gorm:"column:file_url;type:text" json:"file_url,omitempty"`
	FileName             *string            `gorm:"column:file_name;size:255" json:"file_name,omitempty"`
	RevisionReason       *string            `gorm:"column:revision_reason;type:text" json:"revision_reason,omitempty"`
	RejectionReason      *string            `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	// AppealKind is the report kind a letter of appeal asks an extension for.
	AppealKind      *Kind           `gorm:"column:appeal_kind;size:32" json:"appeal_kind,omitempty"`
	ReconciledByID  *string         `gorm:"column:reconciled_by_id;size:32" json:"reconciled_by_id,omitempty"`
	ReviewOpinion   *string         `gorm:"column:review_opinion;type:text" json:"review_opinion,omitempty"`
	ReviewComment   *string         `gorm:"column:review_comment;type:text" json:"review_comment,omitempty"`
	AuditSemester   *audit.Semester `gorm:"column:audit_semester;size:8" json:"audit_semester,omitempty"`
	AuditPhase      *audit.Phase    `gorm:"column:audit_phase;size:16" json:"audit_phase,omitempty"`
	SubmittedAt     time.Time       `gorm:"column:submitted_at;not null;index" json:"submitted_at"`
	AuditReviewedAt *time.Time      `gorm:"column:audit_reviewed_at;index" json:"audit_reviewed_at,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Submission) TableName() string { return "submissions" }

var transitions = map[Status][]Status{
	StatusPending:     {StatusApproved, StatusRejected, StatusForRevision},
	StatusForRevision: {StatusPending, StatusApproved},
	StatusApproved:    {StatusDeletedPreviouslyApproved},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *Submission) transition(to Status) error {
	if !CanTransition(s.Status, to) {
		return ErrInvalidTransition
	}
	s.Status = to
	return nil
}

func (s *Submission) Approve(by organization.Code) error {
	if err := s.transition(StatusApproved); err != nil {
		return err
	}
	s.ApprovedBy = &by
	return nil
}

func (s *Submission) Reject(reason string) error {
	if err := s.transition(StatusRejected); err != nil {
		return err
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		s.RejectionReason = &reason
	}
	return nil
}

func (s *Submission) RequestRevision(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if err := s.transition(StatusForRevision); err != nil {
		return err
	}
	s.RevisionReason = &reason
	return nil
}

// Reconcile moves a ForRevision record once a resubmission arrives. It becomes
// Approved when the (title, kind) pair was ever approved, otherwise Pending
// with its revision reason cleared.
func (s *Submission) Reconcile(resubmissionID string, everApproved bool) error {
	if s.Status != StatusForRevision {
		return ErrInvalidTransition
	}
	if everApproved {
		s.Status = StatusApproved
	} else {
		s.Status = StatusPending
		s.RevisionReason = nil
	}
	s.ReconciledByID = &resubmissionID
	return nil
}

// SoftDelete keeps an approved record as an approval marker and drops its evidence.
func (s *Submission) SoftDelete() error {
	if err := s.transition(StatusDeletedPreviouslyApproved); err != nil {
		return err
	}
	s.FileURL = nil
	s.FileName = nil
	return nil
}

// RecordAuditReview stores the audit authority's opinion and/or comment. The
// first time both are present the record is stamped with Classify(now);
// classified records are immutable.
func (s *Submission) RecordAuditReview(opinion, comment string, now time.Time) (classified bool, err error) {
	if s.AuditSemester != nil {
		return false, ErrAlreadyClassified
	}
	if !s.Kind.IsReport() || s.Status != StatusApproved {
		return false, apperr.Validation("only approved reports can be audited")
	}
	if v := strings.TrimSpace(opinion); v != "" {
		s.ReviewOpinion = &v
	}
	if v := strings.TrimSpace(comment); v != "" {
		s.ReviewComment = &v
	}
	if s.ReviewOpinion == nil || s.ReviewComment == nil {
		return false, nil
	}
	a := audit.Classify(now)
	at := now.UTC()
	s.AuditSemester, s.AuditPhase, s.AuditReviewedAt = &a.Semester, &a.Phase, &at
	return true, nil
}

func (s *Submission) Assignment() *audit.Assignment {
	if s.AuditSemester == nil || s.AuditPhase == nil {
		return nil
	}
	return &audit.Assignment{Semester: *s.AuditSemester, Phase: *s.AuditPhase}
}

// SatisfiesDeadline reports whether this record permanently discharges the
// deadline for its (activity, kind).
func (s *Submission) SatisfiesDeadline() bool {
	return s.Status == StatusApproved || s.Status == StatusDeletedPreviouslyApproved
}

// EverApproved reports whether a reviewer ever approved this record.
func (s *Submission) EverApproved() bool {
	return s.ApprovedBy != nil || s.SatisfiesDeadline()
}

// Correlates matches a submission to an activity: by linked id when the
// submission carries one, by title otherwise.
func (s *Submission) Correlates(activityID, title string) bool {
	if s.LinkedActivityID != nil && *s.LinkedActivityID != "" {
		return *s.LinkedActivityID == activityID
	}
	return s.ActivityTitle == title
}
