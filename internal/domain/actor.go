package domain

import "time"

type ActorRole string

const (
	RoleClient   ActorRole = "client"
	RoleProvider ActorRole = "provider"
)

// Actor is a marketplace participant. Clients request bookings, providers
// fulfil them. Provider-only fields (Trade, HourlyRate, Available) stay at
// their zero values on clients.
type Actor struct {
	ID    int64     `json:"id" gorm:"column:id;primaryKey"`
	Name  string    `json:"name" gorm:"column:name" validate:"required"`
	Phone string    `json:"phone,omitempty" gorm:"column:phone"`
	Email string    `json:"email,omitempty" gorm:"column:email"`
	Role  ActorRole `json:"role" gorm:"column:role;index"`

	Trade string `json:"trade,omitempty" gorm:"column:trade;index"`
	// HourlyRate is in centimes. Read at completion time, so a rate change
	// affects in-flight bookings.
	HourlyRate int64 `json:"hourly_rate,omitempty" gorm:"column:hourly_rate"`
	Available  bool  `json:"available" gorm:"column:available"`

	// HasPaymentMethod is recomputed from the actor's instrument count on
	// every add/remove, never set directly by callers.
	HasPaymentMethod bool `json:"has_payment_method" gorm:"column:has_payment_method"`

	// SecretHash is only read by the dev identity stub (cmd/identity);
	// the real identity provider is external and never touches this API.
	SecretHash string `json:"-" gorm:"column:secret_hash"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Actor) TableName() string { return "actors" }

func (a *Actor) IsProvider() bool { return a.Role == RoleProvider }
func (a *Actor) IsClient() bool   { return a.Role == RoleClient }
