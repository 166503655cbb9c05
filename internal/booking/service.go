package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/seatmap"
	"ms-booking/internal/store"
)

// EventLocker serializes reservation transactions per event id. LockEvent
// blocks until the lock is held and returns its release func; release is safe
// to call more than once.
type EventLocker interface {
	LockEvent(ctx context.Context, eventID string) (release func(), err error)
}

// BookingPublisher streams booking lifecycle events to downstream consumers.
// Publishing is fire-and-forget: a publish failure never fails the booking.
type BookingPublisher interface {
	PublishBookingCreated(booking models.Booking) error
}

// Service is the reservation engine plus the read-side booking façade. It is
// the sole mutator of seat state: all correctness for overlapping seat
// mutations lives here, not in the store adapters.
type Service struct {
	Events      store.EventStore
	Bookings    store.BookingStore
	Collections *store.Guards
	Locks       EventLocker
	Publisher   BookingPublisher
	Logger      *logger.Logger
}

func NewService(events store.EventStore, bookings store.BookingStore, collections *store.Guards, locks EventLocker, publisher BookingPublisher, log *logger.Logger) *Service {
	return &Service{
		Events:      events,
		Bookings:    bookings,
		Collections: collections,
		Locks:       locks,
		Publisher:   publisher,
		Logger:      log,
	}
}

// ReserveSeats books the requested seats for the caller in one transaction:
// validate, check availability against a private copy of the event, mark the
// seats, persist the event collection, then append a booking record. Either
// every requested seat transitions together or none do. If the booking record
// save fails after the event save succeeded the seats stay durably booked and
// the caller gets a persistence error; that gap is logged loudly because no
// retry can heal it.
func (s *Service) ReserveSeats(ctx context.Context, req models.BookingRequest) (string, error) {
	if req.EventID == "" || len(req.SeatIDs) == 0 || req.UserID == "" {
		return "", fmt.Errorf("%w: missing event, seats or user", ErrInvalidRequest)
	}
	if req.PaymentMethod != models.PaymentMethodDummyPay && req.PaymentMethod != models.PaymentMethodPayAtEvent {
		return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, req.PaymentMethod)
	}

	if err := s.bookSeats(ctx, req); err != nil {
		return "", err
	}

	booking := models.Booking{
		ID:            uuid.NewString(),
		EventID:       req.EventID,
		UserID:        req.UserID,
		Seats:         sortedSeatIDs(req.SeatIDs),
		BookingTime:   time.Now().UTC(),
		PaymentStatus: paymentStatusFor(req.PaymentMethod),
	}

	if err := s.appendBooking(ctx, booking); err != nil {
		return "", err
	}

	s.Logger.LogBooking("RESERVE", booking.ID, fmt.Sprintf("booked %d seat(s) for event %s", len(booking.Seats), booking.EventID))

	if s.Publisher != nil {
		if err := s.Publisher.PublishBookingCreated(booking); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("publish booking %s failed: %v", booking.ID, err))
		}
	}

	return booking.ID, nil
}

// bookSeats runs the read-check-mutate-persist cycle under the per-event
// lock and the events collection guard. The event lock keeps two bookings on
// the same event from racing the availability check; the guard keeps the
// whole-collection save from writing back another event's stale grid, since
// SaveEvents replaces every event, not just this one. The booking record
// append never conflicts on seat state and happens outside both.
func (s *Service) bookSeats(ctx context.Context, req models.BookingRequest) error {
	release, err := s.Locks.LockEvent(ctx, req.EventID)
	if err != nil {
		return fmt.Errorf("acquire event lock: %w", err)
	}
	defer release()

	s.Collections.Events.Lock()
	defer s.Collections.Events.Unlock()

	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		s.Logger.Error("STORE", fmt.Sprintf("event collection read failed: %v", err))
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	idx := -1
	for i := range events {
		if events[i].ID == req.EventID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, req.EventID)
	}

	// Work on a deep copy so a failed transaction or a concurrent reader
	// never observes a partially mutated grid.
	event := events[idx].Clone()

	for _, seatID := range req.SeatIDs {
		row, col, err := seatmap.ParseSeatID(seatID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSeatID, seatID)
		}
		if row > event.Rows || col > event.Cols {
			return fmt.Errorf("%w: %s is outside the %dx%d grid", ErrInvalidSeatID, seatID, event.Rows, event.Cols)
		}
		seat := seatmap.Lookup(event.Seats, row, col)
		if seat == nil || seat.IsBooked {
			// First conflicting seat wins; remaining seats are not checked.
			return fmt.Errorf("%w: %s", ErrSeatUnavailable, seatID)
		}
		// Marking on the copy as we validate also makes a duplicated seat id
		// in the request fail the whole transaction instead of double-counting.
		seat.IsBooked = true
		userID := req.UserID
		seat.UserID = &userID
	}

	events[idx] = *event
	if err := s.Events.SaveEvents(ctx, events); err != nil {
		// Nothing was durably written, so the seats read as available again
		// on the next load; the mutated copy is simply discarded.
		s.Logger.Error("STORE", fmt.Sprintf("event update failed for %s: %v", req.EventID, err))
		return &PersistenceError{Stage: StageEventUpdate, Err: err}
	}

	return nil
}

func (s *Service) appendBooking(ctx context.Context, booking models.Booking) error {
	s.Collections.Bookings.Lock()
	defer s.Collections.Bookings.Unlock()

	bookings, err := s.Bookings.LoadBookings(ctx)
	if err != nil {
		s.logBookingGap(booking, err)
		return &PersistenceError{Stage: StageBookingRecord, Err: err}
	}

	bookings = append(bookings, booking)
	if err := s.Bookings.SaveBookings(ctx, bookings); err != nil {
		s.logBookingGap(booking, err)
		return &PersistenceError{Stage: StageBookingRecord, Err: err}
	}

	return nil
}

// logBookingGap records the one non-self-healing failure mode: seats durably
// booked with no booking record to show for it. Operators need to reconcile
// this by hand, so it gets the loudest log line the service has.
func (s *Service) logBookingGap(booking models.Booking, err error) {
	s.Logger.Error("BOOKING", fmt.Sprintf(
		"INCONSISTENT STATE: seats %v of event %s are booked for user %s but booking %s was not recorded: %v",
		booking.Seats, booking.EventID, booking.UserID, booking.ID, err))
}

// GetBookingWithEvent returns a booking and its event's metadata (grid
// omitted) for the confirmation view. Only the booking's owner may read it.
func (s *Service) GetBookingWithEvent(ctx context.Context, bookingID, userID string) (*models.BookingWithEvent, error) {
	bookings, err := s.Bookings.LoadBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var booking *models.Booking
	for i := range bookings {
		if bookings[i].ID == bookingID {
			booking = &bookings[i]
			break
		}
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}

	if booking.UserID != userID {
		s.Logger.LogSecurity("BOOKING_ACCESS", fmt.Sprintf("user %s attempted to access booking %s owned by %s", userID, bookingID, booking.UserID))
		return nil, ErrForbidden
	}

	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	for i := range events {
		if events[i].ID == booking.EventID {
			return &models.BookingWithEvent{
				Booking: *booking,
				Event:   events[i].Details(),
			}, nil
		}
	}

	// Referential integrity is gone: the booking points at an event that no
	// longer exists.
	s.Logger.Error("BOOKING", fmt.Sprintf("data inconsistency: event %s not found for booking %s", booking.EventID, bookingID))
	return nil, fmt.Errorf("%w: event %s", ErrDataInconsistency, booking.EventID)
}

// ListBookingsForUser returns the caller's bookings enriched with event names
// for the history view. A missing event degrades to "Unknown Event" rather
// than failing the whole list.
func (s *Service) ListBookingsForUser(ctx context.Context, userID string) ([]models.UserBooking, error) {
	bookings, err := s.Bookings.LoadBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	nameByID := make(map[string]string, len(events))
	for i := range events {
		nameByID[events[i].ID] = events[i].Name
	}

	result := []models.UserBooking{}
	for _, b := range bookings {
		if b.UserID != userID {
			continue
		}
		name, ok := nameByID[b.EventID]
		if !ok {
			name = "Unknown Event"
		}
		result = append(result, models.UserBooking{Booking: b, EventName: name})
	}

	return result, nil
}

func sortedSeatIDs(seatIDs []string) []string {
	sorted := make([]string, len(seatIDs))
	copy(sorted, seatIDs)
	sort.Strings(sorted)
	return sorted
}

func paymentStatusFor(method string) string {
	if method == models.PaymentMethodDummyPay {
		return models.PaymentStatusPaid
	}
	return models.PaymentStatusPayAtEvent
}
