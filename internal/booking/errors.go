package booking

import (
	"errors"
	"fmt"
)

// Typed failures of the reservation engine and query façade. Handlers map
// these with errors.Is / errors.As; the engine never formats user-facing text.
var (
	ErrInvalidRequest     = errors.New("invalid booking request")
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidSeatID      = errors.New("invalid seat id")
	ErrSeatUnavailable    = errors.New("seat unavailable")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrForbidden          = errors.New("booking belongs to another user")
	ErrDataInconsistency  = errors.New("booking references a missing event")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Persistence stages a reservation can fail in. The event stage is
// self-healing on retry; the booking stage is not, because the seats were
// already durably marked booked.
const (
	StageEventUpdate   = "event update"
	StageBookingRecord = "booking record"
)

// PersistenceError reports which save of the transaction failed.
type PersistenceError struct {
	Stage string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
