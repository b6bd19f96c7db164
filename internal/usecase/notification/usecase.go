package notification

import (
	"context"
	"errors"

	"compliance-portal/internal/domain/apperr"
	domain "compliance-portal/internal/domain/notification"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/infrastructure/logging"
	"compliance-portal/internal/infrastructure/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultListLimit = 100

// Deliverer pushes committed notifications out of the portal.
type Deliverer interface {
	Deliver(ctx context.Context, ns []domain.Notification)
}

type Usecase struct {
	repo    domain.Repository
	orgs    organization.Repository
	mailer  domain.Mailer
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewUsecase(repo domain.Repository, orgs organization.Repository, mailer domain.Mailer, log *zap.Logger, m *metrics.Metrics) *Usecase {
	return &Usecase{repo: repo, orgs: orgs, mailer: mailer, log: logging.OrNop(log), metrics: m}
}

type NotificationDTO struct {
	domain.Notification
	Read bool `json:"read"`
}

type Inbox struct {
	Unread        int64             `json:"unread"`
	Notifications []NotificationDTO `json:"notifications"`
}

func (u *Usecase) List(ctx context.Context, viewer organization.Code, limit int) (*Inbox, error) {
	if !viewer.Known() {
		return nil, apperr.Routing("unknown organization %q", viewer)
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	ns, err := u.repo.ListForTarget(ctx, viewer, limit)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	unread, err := u.repo.CountUnread(ctx, viewer)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	out := &Inbox{Unread: unread, Notifications: make([]NotificationDTO, 0, len(ns))}
	for i := range ns {
		out.Notifications = append(out.Notifications, NotificationDTO{Notification: ns[i], Read: ns[i].IsReadBy(viewer)})
	}
	return out, nil
}

// MarkRead records that viewer has read one of its own notifications.
func (u *Usecase) MarkRead(ctx context.Context, notificationID string, viewer organization.Code) error {
	n, err := u.repo.GetByID(ctx, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return apperr.Persistence(err)
	}
	if n.TargetOrganization != viewer {
		return apperr.Forbidden("notification %s is not addressed to %s", notificationID, viewer)
	}
	return apperr.Persistence(u.repo.MarkRead(ctx, notificationID, viewer))
}

// Deliver e-mails each notification to its target. Failures are logged and
// counted; they never undo the committed notification.
func (u *Usecase) Deliver(ctx context.Context, ns []domain.Notification) {
	if u.mailer == nil || len(ns) == 0 {
		return
	}
	emails := map[organization.Code]string{}
	for _, n := range ns {
		addr, ok := emails[n.TargetOrganization]
		if !ok {
			org, err := u.orgs.GetByCode(ctx, n.TargetOrganization)
			switch {
			case err == nil:
				addr = org.Email
			case !errors.Is(err, gorm.ErrRecordNotFound):
				u.metrics.MailFailed()
				u.log.Warn("notification recipient lookup failed",
					zap.String("target", n.TargetOrganization.String()),
					zap.Error(err))
			}
			emails[n.TargetOrganization] = addr
		}
		if addr == "" {
			continue
		}
		if err := u.mailer.Send([]string{addr}, n.Title, n.Description); err != nil {
			u.metrics.MailFailed()
			u.log.Warn("notification mail failed",
				zap.String("notification_id", n.ID),
				zap.String("target", n.TargetOrganization.String()),
				zap.Error(err))
		}
	}
}
