package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"khedma/internal/domain"
)

type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) Create(ctx context.Context, a *domain.Actor) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActorRepository) GetByID(ctx context.Context, id int64) (*domain.Actor, error) {
	var a domain.Actor
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// getForUpdateIn locks the row for the rest of the surrounding transaction.
// SQLite serializes writers anyway, so the clause only matters on Postgres.
func getActorForUpdateIn(tx *gorm.DB, id int64) (*domain.Actor, error) {
	var a domain.Actor
	if err := tx.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListProvidersByTrade returns available providers of the given trade,
// ordered by id for a stable directory listing.
func (r *ActorRepository) ListProvidersByTrade(ctx context.Context, trade string) ([]domain.Actor, error) {
	var out []domain.Actor
	err := r.db.WithContext(ctx).
		Where("role = ? AND trade = ? AND available = ?", domain.RoleProvider, trade, true).
		Order("id asc").
		Find(&out).Error
	return out, err
}

func (r *ActorRepository) SetAvailability(ctx context.Context, providerID int64, available bool) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Actor{}).
		Where("id = ? AND role = ?", providerID, domain.RoleProvider).
		Update("available", available)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func setHasPaymentMethodIn(tx *gorm.DB, actorID int64, has bool) error {
	return tx.Model(&domain.Actor{}).
		Where("id = ?", actorID).
		Update("has_payment_method", has).Error
}
