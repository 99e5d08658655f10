package actor

import (
	"context"
	"errors"

	"khedma/internal/domain"
	"khedma/internal/repository"
)

var (
	ErrNotFound  = errors.New("actor not found")
	ErrWrongRole = errors.New("actor has the wrong role for this operation")
)

// Stats is the provider profile view, derived by full scan at read time.
type Stats struct {
	Missions        int64 `json:"missions"`
	Completed       int64 `json:"completed"`
	Revenue         int64 `json:"revenue"`
	DistinctClients int64 `json:"distinct_clients"`
}

type ActorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Actor, error)
	ListProvidersByTrade(ctx context.Context, trade string) ([]domain.Actor, error)
	SetAvailability(ctx context.Context, providerID int64, available bool) error
}

type StatsReader interface {
	StatsByProvider(ctx context.Context, providerID int64) (*repository.StatsRow, error)
}

var _ ActorRepository = (*repository.ActorRepository)(nil)
var _ StatsReader = (*repository.BookingRepository)(nil)

type Service struct {
	actors ActorRepository
	stats  StatsReader
}

func NewService(actors ActorRepository, stats StatsReader) *Service {
	return &Service{actors: actors, stats: stats}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Actor, error) {
	a, err := s.actors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListProviders returns the available providers of a trade, the directory
// the client browses before ranking kicks in.
func (s *Service) ListProviders(ctx context.Context, trade string) ([]domain.Actor, error) {
	return s.actors.ListProvidersByTrade(ctx, trade)
}

func (s *Service) SetAvailability(ctx context.Context, providerID int64, available bool) error {
	if err := s.actors.SetAvailability(ctx, providerID, available); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) ProviderStats(ctx context.Context, providerID int64) (*Stats, error) {
	a, err := s.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !a.IsProvider() {
		return nil, ErrWrongRole
	}

	row, err := s.stats.StatsByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Missions:        row.Missions,
		Completed:       row.Completed,
		Revenue:         row.Revenue,
		DistinctClients: row.DistinctClients,
	}, nil
}
