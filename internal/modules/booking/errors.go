package booking

import (
	"errors"
	"fmt"

	"khedma/internal/domain"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrActorNotFound     = errors.New("actor not found")
	ErrForbidden         = errors.New("caller is not allowed to act on this booking")
	ErrWrongRole         = errors.New("actor has the wrong role for this operation")
	ErrSelfBooking       = errors.New("requester and provider must differ")
	ErrNoPaymentMethod   = errors.New("requester has no payment method")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("booking transition lost a concurrent race")
)

// transitionError names the illegal source/target pair so the caller can see
// exactly which precondition failed. It unwraps to ErrInvalidTransition.
func transitionError(from, to domain.BookingStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
