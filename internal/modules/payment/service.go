package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"khedma/internal/domain"
	"khedma/internal/repository"
)

type InstrumentRepository interface {
	Add(ctx context.Context, p *domain.PaymentInstrument) error
	Remove(ctx context.Context, ownerID int64, instrumentID uuid.UUID) (bool, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.PaymentInstrument, error)
}

var _ InstrumentRepository = (*repository.InstrumentRepository)(nil)

type Service struct {
	instruments InstrumentRepository
}

func NewService(instruments InstrumentRepository) *Service {
	return &Service{instruments: instruments}
}

// CanBook is the booking precondition: true iff the client owns at least one
// saved instrument. Pure read, counted from the rows themselves rather than
// the denormalized actor flag.
func (s *Service) CanBook(ctx context.Context, clientID int64) (bool, error) {
	cnt, err := s.instruments.CountByOwner(ctx, clientID)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *Service) AddInstrument(ctx context.Context, ownerID int64, req AddInstrumentRequest) (*domain.PaymentInstrument, error) {
	if req.Brand == "" || len(req.Last4) != 4 || req.Expiry == "" {
		return nil, ErrValidation
	}

	p := &domain.PaymentInstrument{
		OwnerID: ownerID,
		Brand:   req.Brand,
		Last4:   req.Last4,
		Expiry:  req.Expiry,
	}
	if err := s.instruments.Add(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// RemoveInstrument deletes the card and reports whether the owner still has
// any payment method, so the caller can reflect the new gating state.
func (s *Service) RemoveInstrument(ctx context.Context, ownerID int64, instrumentID uuid.UUID) (bool, error) {
	has, err := s.instruments.Remove(ctx, ownerID, instrumentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return has, nil
}

func (s *Service) ListInstruments(ctx context.Context, ownerID int64) ([]domain.PaymentInstrument, error) {
	return s.instruments.ListByOwner(ctx, ownerID)
}
