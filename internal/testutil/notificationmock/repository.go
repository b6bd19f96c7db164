package notificationmock

import (
	"context"

	domain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"

	"gorm.io/gorm"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Mailer     = (*Mailer)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateBatchFn   func(ctx context.Context, ns []domain.Notification) error
	GetByIDFn       func(ctx context.Context, id string) (*domain.Notification, error)
	ListForTargetFn func(ctx context.Context, target organization.Code, limit int) ([]domain.Notification, error)
	MarkReadFn      func(ctx context.Context, id string, org organization.Code) error
	CountUnreadFn   func(ctx context.Context, target organization.Code) (int64, error)
}

func (m *Repo) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, ns)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListForTarget(ctx context.Context, target organization.Code, limit int) ([]domain.Notification, error) {
	if m.ListForTargetFn != nil {
		return m.ListForTargetFn(ctx, target, limit)
	}
	return nil, nil
}

func (m *Repo) MarkRead(ctx context.Context, id string, org organization.Code) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, id, org)
	}
	return nil
}

func (m *Repo) CountUnread(ctx context.Context, target organization.Code) (int64, error) {
	if m.CountUnreadFn != nil {
		return m.CountUnreadFn(ctx, target)
	}
	return 0, nil
}

// Mailer records every message it is asked to send.
type Mailer struct {
	SendFn func(to []string, subject, body string) error
	Sent   []Message
}

type Message struct {
	To      []string
	Subject string
	Body    string
}

func (m *Mailer) Send(to []string, subject, body string) error {
	m.Sent = append(m.Sent, Message{To: to, Subject: subject, Body: body})
	if m.SendFn != nil {
		return m.SendFn(to, subject, body)
	}
	return nil
}
