package payment

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("payment instrument not found")
)

// DenialNoPaymentMethod is the stable machine-readable reason a booking
// attempt is blocked; the UI uses it to redirect the client to add a card.
const DenialNoPaymentMethod = "NO_PAYMENT_METHOD"
