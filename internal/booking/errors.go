package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors for failures that carry no extra detail. Authentication
// failures deliberately collapse unknown-user and bad-password into the
// single ErrLoginFailed so callers cannot tell which occurred.
var (
	ErrAlreadyLoggedIn  = errors.New("user already logged in")
	ErrLoginFailed      = errors.New("login failed")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrCreateUserFailed = errors.New("failed to create user")
	ErrNoMatches        = errors.New("no flights match your selection")
	ErrSearchFailed     = errors.New("failed to search")
	ErrSameDayConflict  = errors.New("you cannot book two flights in the same day")
	ErrBookingFailed    = errors.New("booking failed")
	ErrNoReservations   = errors.New("no reservations found")
	ErrListFailed       = errors.New("failed to retrieve reservations")
)

// NoSuchItineraryError reports a booking attempt against an index that is
// not present in the session's current search result.
type NoSuchItineraryError struct{ Index int }

func (e *NoSuchItineraryError) Error() string {
	return fmt.Sprintf("no such itinerary %d", e.Index)
}

// UnpaidReservationError reports a payment attempt against a reservation
// that is absent, already paid, or owned by someone else.
type UnpaidReservationError struct {
	RID      int64
	Username string
}

func (e *UnpaidReservationError) Error() string {
	return fmt.Sprintf("cannot find unpaid reservation %d under user: %s", e.RID, e.Username)
}

// InsufficientBalanceError reports a payment the user cannot afford. No
// mutation occurs when it is returned.
type InsufficientBalanceError struct {
	Balance int64
	Cost    int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("user has only %d in account but itinerary costs %d", e.Balance, e.Cost)
}

// PaymentFailedError covers store-level failures during payment.
type PaymentFailedError struct{ RID int64 }

func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("failed to pay for reservation %d", e.RID)
}

// CancelFailedError covers every cancellation failure, including the
// reservation not being found. The single message is intentional; it
// leaks nothing about whether the reservation exists.
type CancelFailedError struct{ RID int64 }

func (e *CancelFailedError) Error() string {
	return fmt.Sprintf("failed to cancel reservation %d", e.RID)
}
