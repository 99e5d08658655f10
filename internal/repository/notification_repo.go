package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"khedma/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateIn inserts the notification inside the caller's transaction, so the
// triggering write and its notification commit or roll back together.
func (r *NotificationRepository) CreateIn(tx *gorm.DB, ownerID int64, typ domain.NotificationType, title, body string, data map[string]any) error {
	var raw []byte
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = b
	}

	n := &domain.Notification{
		OwnerID: ownerID,
		Type:    typ,
		Title:   title,
		Body:    body,
		Data:    raw,
		IsRead:  false,
	}
	return tx.Create(n).Error
}

func (r *NotificationRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, ownerID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("owner_id = ? AND is_read = ?", ownerID, false).
		Count(&cnt).Error
	return cnt, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, ownerID int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, ownerID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("owner_id = ? AND is_read = ?", ownerID, false).
		Update("is_read", true).Error
}
