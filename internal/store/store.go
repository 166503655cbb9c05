// Package store defines the whole-collection persistence contract consumed by
// the reservation engine and the event service. Adapters load and replace an
// entire collection at a time and provide no concurrency control of their own;
// callers that need atomicity serialize around these calls.
package store

import (
	"context"

	"ms-booking/internal/models"
)

// EventStore persists the full event list. SaveEvents replaces the stored
// collection; a load error means the storage is unavailable, never an empty
// collection.
type EventStore interface {
	LoadEvents(ctx context.Context) ([]models.Event, error)
	SaveEvents(ctx context.Context, events []models.Event) error
}

// BookingStore persists the full booking list with the same contract.
type BookingStore interface {
	LoadBookings(ctx context.Context) ([]models.Booking, error)
	SaveBookings(ctx context.Context, bookings []models.Booking) error
}
