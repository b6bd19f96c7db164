package notification

import (
	"context"
	"time"

	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/organization"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "notification not found")

type Notification struct {
	ID                 string             `gorm:"column:id;primaryKey;size:32" json:"id"`
	SourceEventID      string             `gorm:"column:source_event_id;size:36;not null;index" json:"source_event_id"`
	Title              string             `gorm:"column:title;size:255;not null" json:"title"`
	Description        string             `gorm:"column:description;type:text" json:"description"`
	CreatedBy          organization.Code  `gorm:"column:created_by;size:8;not null" json:"created_by"`
	TargetOrganization organization.Code  `gorm:"column:target_organization;size:8;not null;index" json:"target_organization"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	Reads              []NotificationRead `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// ReadBy lists the organizations that have marked the notification read.
func (n *Notification) ReadBy() []organization.Code {
	out := make([]organization.Code, 0, len(n.Reads))
	for _, r := range n.Reads {
		out = append(out, r.Organization)
	}
	return out
}

func (n *Notification) IsReadBy(org organization.Code) bool {
	for _, r := range n.Reads {
		if r.Organization == org {
			return true
		}
	}
	return false
}

// NotificationRead records that one organization has read one notification.
type NotificationRead struct {
	NotificationID string            `gorm:"column:notification_id;primaryKey;size:32"`
	Organization   organization.Code `gorm:"column:organization;primaryKey;size:8"`
	ReadAt         time.Time         `gorm:"column:read_at;autoCreateTime"`
}

func (NotificationRead) TableName() string { return "notification_reads" }

type Repository interface {
	CreateBatch(ctx context.Context, ns []Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListForTarget(ctx context.Context, target organization.Code, limit int) ([]Notification, error)
	// MarkRead is idempotent per (notification, organization).
	MarkRead(ctx context.Context, id string, org organization.Code) error
	CountUnread(ctx context.Context, target organization.Code) (int64, error)
}

// Mailer delivers a notification outside the portal. Delivery is best effort.
type Mailer interface {
	Send(to []string, subject, body string) error
}
