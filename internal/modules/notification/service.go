package notification

import (
	"context"
	"errors"

	"khedma/internal/domain"
	"khedma/internal/repository"
)

var ErrNotFound = errors.New("notification not found")

type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, ownerID int64) (int64, error)
	MarkRead(ctx context.Context, id, ownerID int64) error
	MarkAllRead(ctx context.Context, ownerID int64) error
}

var _ Repository = (*repository.NotificationRepository)(nil)

// Service reads and acknowledges notifications. Creation happens inside the
// triggering operations' transactions (see repository.CreateIn); this
// service never creates rows on its own.
type Service struct {
	repo Repository
	hub  *Hub
}

func NewService(repo Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

func (s *Service) List(ctx context.Context, ownerID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}

	return list, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, id, ownerID int64) error {
	if err := s.repo.MarkRead(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, ownerID int64) error {
	return s.repo.MarkAllRead(ctx, ownerID)
}

// PushLatest fans the newest notifications out to a connected owner. Called
// after a triggering operation commits; losses are fine, the rows are not.
func (s *Service) PushLatest(ctx context.Context, ownerID int64) {
	if s.hub == nil {
		return
	}
	list, err := s.repo.ListByOwner(ctx, ownerID, 1)
	if err != nil || len(list) == 0 {
		return
	}
	s.hub.Push(ownerID, &list[0])
}
