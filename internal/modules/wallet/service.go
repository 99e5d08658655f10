package wallet

import (
	"context"
	"errors"

	"khedma/internal/domain"
	"khedma/internal/repository"
)

var (
	ErrNotFound  = errors.New("provider not found")
	ErrWrongRole = errors.New("actor is not a provider")
)

// Summary is a provider's earnings view, all amounts in centimes. It is
// derived from booking rows on every read; nothing is stored.
type Summary struct {
	Available int64 `json:"available"`
	Pending   int64 `json:"pending"`
	// Total mirrors Available today but is kept separate: a future
	// withdrawal feature debits Available while Total must not regress.
	Total int64 `json:"total"`
}

type ActorReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Actor, error)
}

type EarningsReader interface {
	EarningsByProvider(ctx context.Context, providerID int64) (*repository.EarningsRow, error)
}

var _ EarningsReader = (*repository.BookingRepository)(nil)

type Service struct {
	actors   ActorReader
	earnings EarningsReader
}

func NewService(actors ActorReader, earnings EarningsReader) *Service {
	return &Service{actors: actors, earnings: earnings}
}

// Wallet computes {available, pending, total} from the provider's booking
// history. Pending estimates each accepted booking at one hour of the
// current rate, since hours are unknown until completion.
func (s *Service) Wallet(ctx context.Context, providerID int64) (*Summary, error) {
	a, err := s.actors.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !a.IsProvider() {
		return nil, ErrWrongRole
	}

	row, err := s.earnings.EarningsByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Available: row.Available,
		Pending:   row.AcceptedCount * a.HourlyRate,
		Total:     row.Available,
	}, nil
}
