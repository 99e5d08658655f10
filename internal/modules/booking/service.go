package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"khedma/internal/domain"
	"khedma/internal/repository"
)

// Service owns the booking state machine. All status writes go through the
// guarded transition here; nothing else in the codebase sets a status.
type Service struct {
	db       *gorm.DB
	actors   ActorReader
	bookings BookingRepository
	notifs   Notifier
	gate     PaymentGate
	pusher   Pusher
}

func NewService(db *gorm.DB, actors ActorReader, bookings BookingRepository, notifs Notifier, gate PaymentGate, pusher Pusher) *Service {
	return &Service{
		db:       db,
		actors:   actors,
		bookings: bookings,
		notifs:   notifs,
		gate:     gate,
		pusher:   pusher,
	}
}

func (s *Service) Create(ctx context.Context, requesterID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ProviderID == 0 || strings.TrimSpace(req.RequestedFor) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, ErrValidation
	}
	if requesterID == req.ProviderID {
		return nil, ErrSelfBooking
	}

	requester, err := s.getActor(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !requester.IsClient() {
		return nil, ErrWrongRole
	}

	provider, err := s.getActor(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.IsProvider() {
		return nil, ErrWrongRole
	}

	ok, err := s.gate.CanBook(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoPaymentMethod
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}

	b := &domain.Booking{
		RequesterID:    requesterID,
		ProviderID:     req.ProviderID,
		RequestedFor:   req.RequestedFor,
		Description:    req.Description,
		Status:         domain.BookingPending,
		IdempotencyKey: &key,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookings.CreateIn(tx, b); err != nil {
			return err
		}
		return s.notifs.CreateIn(tx, provider.ID, domain.NotifBookingRequested,
			"Nouvelle demande",
			fmt.Sprintf("%s vous a envoyé une demande pour %s", requester.Name, req.RequestedFor),
			map[string]any{"booking_id": b.ID.String(), "requester_id": requesterID},
		)
	})
	if err != nil {
		// A retried submission with the same key hits the unique index; the
		// original booking is the answer, not a second row.
		if repository.IsUniqueViolation(err) {
			existing, err := s.bookings.GetByIdempotencyKey(ctx, key)
			if err != nil {
				return nil, err
			}
			// The same key from a different client is a collision, not a
			// replay; never hand out someone else's booking.
			if existing.RequesterID != requesterID {
				return nil, ErrConflict
			}
			return existing, nil
		}
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.PushLatest(ctx, provider.ID)
	}
	return b, nil
}

func (s *Service) Accept(ctx context.Context, bookingID uuid.UUID, callerID int64) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, callerID, domain.BookingAccepted, nil,
		domain.NotifBookingAccepted, "Demande acceptée", "Votre demande a été acceptée par le prestataire")
}

func (s *Service) Refuse(ctx context.Context, bookingID uuid.UUID, callerID int64) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, callerID, domain.BookingRefused, nil,
		domain.NotifBookingRefused, "Demande refusée", "Votre demande a été refusée par le prestataire")
}

// Complete settles the price and closes the booking in one guarded write:
// status, hours, price and completed_at land together or not at all.
func (s *Service) Complete(ctx context.Context, bookingID uuid.UUID, callerID int64, hoursWorked float64) (*domain.Booking, error) {
	b, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != callerID {
		return nil, ErrForbidden
	}

	// Rate is read now, not at creation: a provider's rate change applies to
	// in-flight bookings.
	provider, err := s.getActor(ctx, b.ProviderID)
	if err != nil {
		return nil, err
	}

	price, err := Settle(hoursWorked, provider.HourlyRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	extra := map[string]any{
		"hours":        hoursWorked,
		"price":        price,
		"completed_at": now,
	}
	return s.transition(ctx, bookingID, callerID, domain.BookingCompleted, extra,
		domain.NotifBookingCompleted, "Mission terminée",
		fmt.Sprintf("Mission terminée, montant réglé: %.2f", float64(price)/100))
}

func (s *Service) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListForActor returns the client view (requested bookings) or the provider
// view (assigned bookings), newest first.
func (s *Service) ListForActor(ctx context.Context, actorID int64, role domain.ActorRole) ([]domain.Booking, error) {
	switch role {
	case domain.RoleClient:
		return s.bookings.ListByRequester(ctx, actorID)
	case domain.RoleProvider:
		return s.bookings.ListByProvider(ctx, actorID)
	default:
		return nil, ErrValidation
	}
}

// transition is the single compare-and-set path for every status change.
// Legality is checked against the status observed on read; the write then
// matches on that same status, so a racer that moved the booking first
// leaves this caller with zero affected rows and a conflict.
func (s *Service) transition(ctx context.Context, bookingID uuid.UUID, callerID int64, target domain.BookingStatus, extra map[string]any, notifType domain.NotificationType, title, body string) (*domain.Booking, error) {
	b, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != callerID {
		return nil, ErrForbidden
	}
	if !domain.CanTransition(b.Status, target) {
		return nil, transitionError(b.Status, target)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.bookings.TransitionIn(tx, b.ID, b.Status, target, extra)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}
		return s.notifs.CreateIn(tx, b.RequesterID, notifType, title, body,
			map[string]any{"booking_id": b.ID.String(), "provider_id": b.ProviderID},
		)
	})
	if err != nil {
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.PushLatest(ctx, b.RequesterID)
	}
	return s.GetByID(ctx, bookingID)
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
