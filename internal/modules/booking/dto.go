package booking

import "github.com/google/uuid"

type CreateBookingRequest struct {
	ProviderID   int64  `json:"provider_id" binding:"required"`
	RequestedFor string `json:"requested_for" binding:"required"`
	Description  string `json:"description" binding:"required"`
	// Optional: callers retrying on a timeout send the same key so the
	// engine creates at most one booking per user intent.
	IdempotencyKey string `json:"idempotency_key"`
}

type TransitionRequest struct {
	Action      string   `json:"action" binding:"required"`
	HoursWorked *float64 `json:"hours_worked"`
}

const (
	ActionAccept   = "ACCEPT"
	ActionRefuse   = "REFUSE"
	ActionComplete = "COMPLETE"
)

type TransitionResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Price  *int64    `json:"price,omitempty"`
}
