package stats

import (
	"context"
	"errors"
	"fmt"

	"ms-booking/internal/store"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

// Service aggregates occupancy figures for the admin dashboard. Numbers are
// derived from the seat grids, so they agree with what the booking engine
// last persisted.
type Service struct {
	Events   store.EventStore
	Bookings store.BookingStore
}

func NewService(events store.EventStore, bookings store.BookingStore) *Service {
	return &Service{Events: events, Bookings: bookings}
}

// EventStats holds per-event occupancy metrics.
type EventStats struct {
	EventID     string  `json:"eventId"`
	Name        string  `json:"name"`
	Published   bool    `json:"published"`
	Capacity    int     `json:"capacity"`
	SeatsBooked int     `json:"seatsBooked"`
	Bookings    int     `json:"bookings"`
	Occupancy   float64 `json:"occupancy"`
}

// Overview is the full dashboard payload.
type Overview struct {
	TotalEvents      int          `json:"totalEvents"`
	TotalBookings    int          `json:"totalBookings"`
	TotalSeatsBooked int          `json:"totalSeatsBooked"`
	Events           []EventStats `json:"events"`
}

// GetOverview computes occupancy across all events.
func (s *Service) GetOverview(ctx context.Context) (Overview, error) {
	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	bookings, err := s.Bookings.LoadBookings(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	bookingsPerEvent := make(map[string]int, len(events))
	for _, b := range bookings {
		bookingsPerEvent[b.EventID]++
	}

	overview := Overview{Events: make([]EventStats, 0, len(events))}
	for _, evt := range events {
		booked := evt.Capacity - evt.AvailableSeats()
		es := EventStats{
			EventID:     evt.ID,
			Name:        evt.Name,
			Published:   evt.Published,
			Capacity:    evt.Capacity,
			SeatsBooked: booked,
			Bookings:    bookingsPerEvent[evt.ID],
		}
		if evt.Capacity > 0 {
			es.Occupancy = float64(booked) / float64(evt.Capacity)
		}
		overview.Events = append(overview.Events, es)
		overview.TotalSeatsBooked += booked
	}
	overview.TotalEvents = len(events)
	overview.TotalBookings = len(bookings)

	return overview, nil
}
