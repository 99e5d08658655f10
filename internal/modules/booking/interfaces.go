package booking

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"khedma/internal/domain"
	"khedma/internal/repository"
)

type ActorReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Actor, error)
}

type BookingRepository interface {
	CreateIn(tx *gorm.DB, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error)
	TransitionIn(tx *gorm.DB, id uuid.UUID, from, to domain.BookingStatus, extra map[string]any) (bool, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.Booking, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.Booking, error)
}

// Notifier inserts the notification inside the transaction that carries the
// triggering write; a failed insert fails the whole operation.
type Notifier interface {
	CreateIn(tx *gorm.DB, ownerID int64, typ domain.NotificationType, title, body string, data map[string]any) error
}

// PaymentGate answers whether a client may create bookings at call time.
type PaymentGate interface {
	CanBook(ctx context.Context, clientID int64) (bool, error)
}

// Pusher fans a committed notification out to a connected actor. Optional
// and best-effort; the persisted row is the delivery guarantee.
type Pusher interface {
	PushLatest(ctx context.Context, ownerID int64)
}

var _ BookingRepository = (*repository.BookingRepository)(nil)
var _ ActorReader = (*repository.ActorRepository)(nil)
var _ Notifier = (*repository.NotificationRepository)(nil)
