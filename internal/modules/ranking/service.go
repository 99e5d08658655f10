package ranking

import (
	"context"
	"errors"

	"khedma/internal/repository"
)

var ErrValidation = errors.New("validation error")

const defaultLimit = 20

// Entry is one ranked provider. Score counts every booking ever created
// against the provider; later status changes never move it.
type Entry struct {
	ProviderID int64 `json:"provider_id"`
	Score      int64 `json:"score"`
}

type ScoreReader interface {
	RankByTrade(ctx context.Context, trade string, limit int) ([]repository.ScoreRow, error)
}

var _ ScoreReader = (*repository.BookingRepository)(nil)

type Service struct {
	scores ScoreReader
}

func NewService(scores ScoreReader) *Service {
	return &Service{scores: scores}
}

// Rank orders the available providers of a trade by historical booking
// volume, score descending. Ties break on provider id ascending so the
// order is deterministic across reads.
func (s *Service) Rank(ctx context.Context, trade string, limit int) ([]Entry, error) {
	if trade == "" {
		return nil, ErrValidation
	}
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}

	rows, err := s.scores.RankByTrade(ctx, trade, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{ProviderID: r.ProviderID, Score: r.Score})
	}
	return out, nil
}
