package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentInstrument is a saved card. Its existence is the only fact the
// booking flow needs: no balance, no real charge.
type PaymentInstrument struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID int64     `json:"owner_id" gorm:"column:owner_id;not null;index"`
	Brand   string    `json:"brand" gorm:"column:brand"`
	Last4   string    `json:"last4" gorm:"column:last4"`
	Expiry  string    `json:"expiry" gorm:"column:expiry"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`

	Owner *Actor `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

func (PaymentInstrument) TableName() string { return "payment_instruments" }

func (p *PaymentInstrument) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
