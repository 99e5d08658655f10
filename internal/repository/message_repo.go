package repository

import (
	"context"

	"gorm.io/gorm"

	"khedma/internal/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) CreateIn(tx *gorm.DB, m *domain.Message) error {
	return tx.Create(m).Error
}

// ListConversation returns all messages between the two actors, oldest
// first, regardless of direction.
func (r *MessageRepository) ListConversation(ctx context.Context, a, b int64) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
