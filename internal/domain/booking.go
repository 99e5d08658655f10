package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingRefused   BookingStatus = "REFUSED"
)

// allowedTransitions is the single authority on the booking state flow.
// Callers never write a status directly; every change goes through the
// booking service, which checks this table and then issues a guarded update.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingAccepted, BookingRefused},
	BookingAccepted: {BookingCompleted},
}

func CanTransition(from, to BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave the status.
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Booking is a single service engagement between one client and one
// provider. Hours and Price are written exactly once, at completion, in the
// same guarded update as the status change; Price never changes afterwards.
type Booking struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	RequesterID int64         `json:"requester_id" gorm:"column:requester_id;not null;index"`
	ProviderID  int64         `json:"provider_id" gorm:"column:provider_id;not null;index"`
	RequestedFor string       `json:"requested_for" gorm:"column:requested_for"`
	Description string        `json:"description" gorm:"column:description;type:text"`
	Status      BookingStatus `json:"status" gorm:"column:status;index"`

	Hours *float64 `json:"hours,omitempty" gorm:"column:hours"`
	// Price is in centimes, set only on completion.
	Price       *int64     `json:"price,omitempty" gorm:"column:price"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`

	// IdempotencyKey dedupes retried create calls: a second submission with
	// the same key returns the original booking instead of inserting twice.
	// Nullable so rows written without a key never collide on the index.
	IdempotencyKey *string `json:"-" gorm:"column:idempotency_key;uniqueIndex"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Requester *Actor `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Provider  *Actor `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
