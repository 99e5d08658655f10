package message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"khedma/internal/domain"
	"khedma/internal/repository"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrActorNotFound = errors.New("actor not found")
	ErrSelfMessage   = errors.New("sender and receiver must differ")
)

type ActorReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Actor, error)
}

type MessageRepository interface {
	CreateIn(tx *gorm.DB, m *domain.Message) error
	ListConversation(ctx context.Context, a, b int64) ([]domain.Message, error)
}

type Notifier interface {
	CreateIn(tx *gorm.DB, ownerID int64, typ domain.NotificationType, title, body string, data map[string]any) error
}

var _ MessageRepository = (*repository.MessageRepository)(nil)

type Service struct {
	db       *gorm.DB
	actors   ActorReader
	messages MessageRepository
	notifs   Notifier
}

func NewService(db *gorm.DB, actors ActorReader, messages MessageRepository, notifs Notifier) *Service {
	return &Service{db: db, actors: actors, messages: messages, notifs: notifs}
}

// Send stores the message and the receiver's notification in one
// transaction: a message either exists with its notification or not at all.
func (s *Service) Send(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrValidation
	}
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}

	sender, err := s.getActor(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getActor(ctx, receiverID); err != nil {
		return nil, err
	}

	m := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.messages.CreateIn(tx, m); err != nil {
			return err
		}
		return s.notifs.CreateIn(tx, receiverID, domain.NotifNewMessage,
			"Nouveau message",
			fmt.Sprintf("%s: %s", sender.Name, preview(content)),
			map[string]any{"message_id": m.ID.String(), "sender_id": senderID},
		)
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) ListConversation(ctx context.Context, actorID, otherID int64) ([]domain.Message, error) {
	if _, err := s.getActor(ctx, otherID); err != nil {
		return nil, err
	}
	return s.messages.ListConversation(ctx, actorID, otherID)
}

func (s *Service) getActor(ctx context.Context, id int64) (*domain.Actor, error) {
	a, err := s.actors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return a, nil
}

// preview truncates on rune boundaries so accented text is never cut
// mid-character.
func preview(content string) string {
	const max = 80
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
