package mysql

import (
	"context"

	notificationDomain "compliance-portal/internal/domain/notification"
	orgDomain "compliance-portal/internal/domain/organization"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []notificationDomain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Reads").Create(&ns).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notificationDomain.Notification, error) {
	var out notificationDomain.Notification
	res := r.db.WithContext(ctx).Preload("Reads").Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *NotificationRepository) ListForTarget(ctx context.Context, target orgDomain.Code, limit int) ([]notificationDomain.Notification, error) {
	var out []notificationDomain.Notification
	q := r.db.WithContext(ctx).Preload("Reads").
		Where("target_organization = ?", target).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string, org orgDomain.Code) error {
	mark := notificationDomain.NotificationRead{NotificationID: id, Organization: org}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mark).Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, target orgDomain.Code) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("target_organization = ?", target).
		Where("NOT EXISTS (SELECT 1 FROM notification_reads nr WHERE nr.notification_id = notifications.id AND nr.organization = ?)", target).
		Count(&n).Error
	return n, err
}
