package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"khedma/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateIn(tx *gorm.DB, b *domain.Booking) error {
	return tx.Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// TransitionIn performs the compare-and-set status change: the row is
// matched on id AND the expected current status, so a transition raced by
// another writer updates zero rows instead of clobbering it. Extra columns
// (hours, price, completed_at) ride in the same statement.
func (r *BookingRepository) TransitionIn(tx *gorm.DB, id uuid.UUID, from, to domain.BookingStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := tx.Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// EarningsRow is the single-query wallet snapshot: summing and counting in
// one statement keeps available and pending consistent with each other.
type EarningsRow struct {
	Available     int64 `gorm:"column:available"`
	AcceptedCount int64 `gorm:"column:accepted_count"`
}

func (r *BookingRepository) EarningsByProvider(ctx context.Context, providerID int64) (*EarningsRow, error) {
	var row EarningsRow
	q := `
SELECT
  COALESCE(SUM(CASE WHEN status = ? THEN price ELSE 0 END), 0) AS available,
  COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)     AS accepted_count
FROM bookings
WHERE provider_id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, domain.BookingCompleted, domain.BookingAccepted, providerID).Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &row, nil
}

// ScoreRow is one entry of the popularity ranking.
type ScoreRow struct {
	ProviderID int64 `gorm:"column:provider_id"`
	Score      int64 `gorm:"column:score"`
}

// RankByTrade counts every booking ever created against each available
// provider of the trade. Later status changes never lower the count. The
// full scan is deliberate: correctness first, incremental counters later.
func (r *BookingRepository) RankByTrade(ctx context.Context, trade string, limit int) ([]ScoreRow, error) {
	var rows []ScoreRow
	q := `
SELECT a.id AS provider_id, COUNT(b.id) AS score
FROM actors a
LEFT JOIN bookings b ON b.provider_id = a.id
WHERE a.role = ? AND a.trade = ? AND a.available = ?
GROUP BY a.id
ORDER BY score DESC, a.id ASC
LIMIT ?
`
	tx := r.db.WithContext(ctx).Raw(q, domain.RoleProvider, trade, true, limit).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// StatsRow backs the provider profile view.
type StatsRow struct {
	Missions       int64 `gorm:"column:missions"`
	Completed      int64 `gorm:"column:completed"`
	Revenue        int64 `gorm:"column:revenue"`
	DistinctClients int64 `gorm:"column:distinct_clients"`
}

func (r *BookingRepository) StatsByProvider(ctx context.Context, providerID int64) (*StatsRow, error) {
	var row StatsRow
	q := `
SELECT
  COUNT(id)                                                  AS missions,
  COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)   AS completed,
  COALESCE(SUM(CASE WHEN status = ? THEN price ELSE 0 END), 0) AS revenue,
  COUNT(DISTINCT requester_id)                               AS distinct_clients
FROM bookings
WHERE provider_id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, domain.BookingCompleted, domain.BookingCompleted, providerID).Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &row, nil
}
