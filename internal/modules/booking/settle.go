package booking

import "math"

// Settle computes the final price in centimes from the hours worked and the
// provider's hourly rate as read at completion time. Half-up rounding to the
// centime; the result is written once and never changes.
func Settle(hoursWorked float64, hourlyRate int64) (int64, error) {
	if hoursWorked <= 0 || math.IsNaN(hoursWorked) || math.IsInf(hoursWorked, 0) {
		return 0, ErrValidation
	}
	if hourlyRate <= 0 {
		return 0, ErrValidation
	}
	return int64(math.Floor(hoursWorked*float64(hourlyRate) + 0.5)), nil
}
