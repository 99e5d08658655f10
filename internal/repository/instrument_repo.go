package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"khedma/internal/domain"
)

type InstrumentRepository struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// Add inserts the instrument and recomputes the owner's has_payment_method
// flag from the resulting count, in one transaction. The flag is what the
// booking gate reads, so it must never drift from the instrument rows.
func (r *InstrumentRepository) Add(ctx context.Context, p *domain.PaymentInstrument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getActorForUpdateIn(tx, p.OwnerID); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return r.recomputeFlagIn(tx, p.OwnerID)
	})
}

// Remove deletes the instrument and recomputes the owner's flag. Removing
// the last card flips has_payment_method back to false.
func (r *InstrumentRepository) Remove(ctx context.Context, ownerID int64, instrumentID uuid.UUID) (bool, error) {
	var has bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", instrumentID, ownerID).
			Delete(&domain.PaymentInstrument{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var cnt int64
		if err := tx.Model(&domain.PaymentInstrument{}).Where("owner_id = ?", ownerID).Count(&cnt).Error; err != nil {
			return err
		}
		has = cnt > 0
		return setHasPaymentMethodIn(tx, ownerID, has)
	})
	return has, err
}

func (r *InstrumentRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.PaymentInstrument{}).
		Where("owner_id = ?", ownerID).
		Count(&cnt).Error
	return cnt, err
}

func (r *InstrumentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.PaymentInstrument, error) {
	var out []domain.PaymentInstrument
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (r *InstrumentRepository) recomputeFlagIn(tx *gorm.DB, ownerID int64) error {
	var cnt int64
	if err := tx.Model(&domain.PaymentInstrument{}).Where("owner_id = ?", ownerID).Count(&cnt).Error; err != nil {
		return err
	}
	return setHasPaymentMethodIn(tx, ownerID, cnt > 0)
}
