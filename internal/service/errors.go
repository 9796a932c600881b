package service

import (
	"errors"
	"fmt"
)

// ErrAlreadyCancelled is returned when cancelling a booking that is
// already in the CANCELLED state. Nothing changes.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrInvalidTransition is returned when an update targets a cancelled
// booking. Cancelled bookings reject all further mutation.
var ErrInvalidTransition = errors.New("cancelled booking cannot be modified")

// ErrGenerationExhausted is returned when the reservation-code
// generator failed to find an unused code within its attempt limit.
var ErrGenerationExhausted = errors.New("reservation code generation exhausted")

// SeatsUnavailableError reports that a schedule does not have enough
// open seats to satisfy a request. Requested carries the number of
// additional seats asked for and Available the counter at the time of
// the check.
type SeatsUnavailableError struct {
	Requested int
	Available int
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("requested %d seats but only %d available", e.Requested, e.Available)
}
