package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/booking"
	"ms-booking/internal/event"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/seatmap"
	"ms-booking/internal/store"
)

// memStore is an in-memory stand-in for the store adapters. Loads hand out
// deep copies, mirroring how a real adapter deserializes fresh values, so a
// caller mutating a loaded event can never leak into the stored state.
type memStore struct {
	mu       sync.Mutex
	events   []models.Event
	bookings []models.Booking

	failEventLoad   bool
	failEventSave   bool
	failBookingLoad bool
	failBookingSave bool

	eventSaves   int
	bookingSaves int
}

func (m *memStore) LoadEvents(ctx context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEventLoad {
		return nil, errors.New("disk read error")
	}
	return copyEvents(m.events), nil
}

func (m *memStore) SaveEvents(ctx context.Context, events []models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEventSave {
		return errors.New("disk write error")
	}
	m.events = copyEvents(events)
	m.eventSaves++
	return nil
}

func (m *memStore) LoadBookings(ctx context.Context) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBookingLoad {
		return nil, errors.New("disk read error")
	}
	return append([]models.Booking{}, m.bookings...), nil
}

func (m *memStore) SaveBookings(ctx context.Context, bookings []models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBookingSave {
		return errors.New("disk write error")
	}
	m.bookings = append([]models.Booking{}, bookings...)
	m.bookingSaves++
	return nil
}

func (m *memStore) storedEvent(t *testing.T, eventID string) models.Event {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == eventID {
			return *m.events[i].Clone()
		}
	}
	t.Fatalf("event %s not in store", eventID)
	return models.Event{}
}

func copyEvents(events []models.Event) []models.Event {
	out := make([]models.Event, len(events))
	for i := range events {
		out[i] = *events[i].Clone()
	}
	return out
}

func makeEvent(id string, rows, cols int) models.Event {
	return models.Event{
		ID:        id,
		Name:      "Test Event",
		Date:      time.Now().Add(24 * time.Hour),
		Published: true,
		Rows:      rows,
		Cols:      cols,
		Seats:     seatmap.Generate(rows, cols),
		CreatedAt: time.Now(),
	}
}

func newTestService(st *memStore) *booking.Service {
	return booking.NewService(st, st, &store.Guards{}, booking.NewKeyedLock(), nil, logger.NewLogger())
}

func TestReserveSeats_Success(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 3, 4)}}
	svc := newTestService(store)

	bookingID, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, bookingID)

	evt := store.storedEvent(t, "E1")
	assert.True(t, evt.Seats[0][0].IsBooked)
	require.NotNil(t, evt.Seats[0][0].UserID)
	assert.Equal(t, "U1", *evt.Seats[0][0].UserID)

	require.Len(t, store.bookings, 1)
	b := store.bookings[0]
	assert.Equal(t, bookingID, b.ID)
	assert.Equal(t, "E1", b.EventID)
	assert.Equal(t, "U1", b.UserID)
	assert.Equal(t, []string{"R1C1"}, b.Seats)
	assert.Equal(t, models.PaymentStatusPaid, b.PaymentStatus)
	assert.False(t, b.BookingTime.IsZero())
}

func TestReserveSeats_SortsSeatIDs(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 3, 4)}}
	svc := newTestService(store)

	_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C2", "R1C1"},
		PaymentMethod: models.PaymentMethodPayAtEvent,
		UserID:        "U1",
	})
	require.NoError(t, err)

	require.Len(t, store.bookings, 1)
	assert.Equal(t, []string{"R1C1", "R1C2"}, store.bookings[0].Seats)
	assert.Equal(t, models.PaymentStatusPayAtEvent, store.bookings[0].PaymentStatus)
}

func TestReserveSeats_InvalidRequest(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 2, 2)}}
	svc := newTestService(store)

	tests := []struct {
		name string
		req  models.BookingRequest
	}{
		{"missing event id", models.BookingRequest{SeatIDs: []string{"R1C1"}, PaymentMethod: models.PaymentMethodDummyPay, UserID: "U1"}},
		{"empty seats", models.BookingRequest{EventID: "E1", PaymentMethod: models.PaymentMethodDummyPay, UserID: "U1"}},
		{"missing user", models.BookingRequest{EventID: "E1", SeatIDs: []string{"R1C1"}, PaymentMethod: models.PaymentMethodDummyPay}},
		{"bad payment method", models.BookingRequest{EventID: "E1", SeatIDs: []string{"R1C1"}, PaymentMethod: "credit_card", UserID: "U1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReserveSeats(context.Background(), tt.req)
			assert.ErrorIs(t, err, booking.ErrInvalidRequest)
		})
	}

	assert.Zero(t, store.eventSaves)
	assert.Zero(t, store.bookingSaves)
}

func TestReserveSeats_EventNotFound(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 2, 2)}}
	svc := newTestService(store)

	_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "missing",
		SeatIDs:       []string{"R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U1",
	})
	assert.ErrorIs(t, err, booking.ErrEventNotFound)
	assert.Zero(t, store.eventSaves)
}

func TestReserveSeats_InvalidSeatID(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 3, 4)}}
	svc := newTestService(store)

	for _, seatID := range []string{"banana", "R1", "R4C1", "R1C5"} {
		t.Run(seatID, func(t *testing.T) {
			_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
				EventID:       "E1",
				SeatIDs:       []string{seatID},
				PaymentMethod: models.PaymentMethodDummyPay,
				UserID:        "U1",
			})
			assert.ErrorIs(t, err, booking.ErrInvalidSeatID)
		})
	}

	assert.Zero(t, store.eventSaves)
	assert.Zero(t, store.bookingSaves)
}

func TestReserveSeats_SeatUnavailable(t *testing.T) {
	evt := makeEvent("E1", 2, 2)
	otherUser := "U0"
	evt.Seats[1][0].IsBooked = true
	evt.Seats[1][0].UserID = &otherUser

	store := &memStore{events: []models.Event{evt}}
	svc := newTestService(store)

	// R1C1 is free but must not be touched once R2C1 conflicts.
	_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R2C1", "R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U1",
	})
	assert.ErrorIs(t, err, booking.ErrSeatUnavailable)

	stored := store.storedEvent(t, "E1")
	assert.False(t, stored.Seats[0][0].IsBooked)
	require.NotNil(t, stored.Seats[1][0].UserID)
	assert.Equal(t, otherUser, *stored.Seats[1][0].UserID)
	assert.Zero(t, store.eventSaves)
	assert.Zero(t, store.bookingSaves)
}

func TestReserveSeats_DuplicateSeatIDsRejected(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 2, 2)}}
	svc := newTestService(store)

	_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C1", "R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U1",
	})
	assert.ErrorIs(t, err, booking.ErrSeatUnavailable)
	assert.Zero(t, store.eventSaves)
}

func TestReserveSeats_StorageUnavailable(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 2, 2)}, failEventLoad: true}
	svc := newTestService(store)

	_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U1",
	})
	// A storage outage must never be reported as a missing event.
	assert.ErrorIs(t, err, booking.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, booking.ErrEventNotFound)
}

func TestReserveSeats_EventSaveFails(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 2, 2)}, failEventSave: true}
	svc := newTestService(store)

	_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U1",
	})

	var perr *booking.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, booking.StageEventUpdate, perr.Stage)

	// No booking record, and the stored grid is untouched: a retry starts clean.
	assert.Zero(t, store.bookingSaves)
	stored := store.storedEvent(t, "E1")
	assert.False(t, stored.Seats[0][0].IsBooked)
}

func TestReserveSeats_BookingSaveFails(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 2, 2)}, failBookingSave: true}
	svc := newTestService(store)

	_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U1",
	})

	var perr *booking.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, booking.StageBookingRecord, perr.Stage)

	// The documented gap: seats stay durably booked, no booking record exists.
	stored := store.storedEvent(t, "E1")
	assert.True(t, stored.Seats[0][0].IsBooked)
	assert.Empty(t, store.bookings)
}

func TestReserveSeats_Scenario(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 2, 2)}}
	svc := newTestService(store)

	bookingID, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C1", "R2C2"},
		PaymentMethod: models.PaymentMethodPayAtEvent,
		UserID:        "U1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, bookingID)

	require.Len(t, store.bookings, 1)
	assert.Equal(t, []string{"R1C1", "R2C2"}, store.bookings[0].Seats)
	assert.Equal(t, models.PaymentStatusPayAtEvent, store.bookings[0].PaymentStatus)

	_, err = svc.ReserveSeats(context.Background(), models.BookingRequest{
		EventID:       "E1",
		SeatIDs:       []string{"R1C1"},
		PaymentMethod: models.PaymentMethodDummyPay,
		UserID:        "U2",
	})
	assert.ErrorIs(t, err, booking.ErrSeatUnavailable)
}

func TestReserveSeats_ConcurrentNoDoubleBooking(t *testing.T) {
	store := &memStore{events: []models.Event{makeEvent("E1", 5, 5)}}
	svc := newTestService(store)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.ReserveSeats(context.Background(), models.BookingRequest{
				EventID:       "E1",
				SeatIDs:       []string{"R3C3"},
				PaymentMethod: models.PaymentMethodDummyPay,
				UserID:        fmt.Sprintf("U%d", n),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, booking.ErrSeatUnavailable)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one racer may win the seat")

	require.Len(t, store.bookings, 1)
	stored := store.storedEvent(t, "E1")
	require.NotNil(t, stored.Seats[2][2].UserID)
	assert.Equal(t, store.bookings[0].UserID, *stored.Seats[2][2].UserID)
}

// Saving replaces the whole event collection, so bookings racing on different
// events must not write back each other's pre-booking grids. Every seat
// booked here has to stay booked, and every booking record has to land.
func TestReserveSeats_ConcurrentAcrossEventsNoLostSeats(t *testing.T) {
	const (
		eventCount = 8
		rows       = 5
		cols       = 5
	)

	st := &memStore{}
	for i := 0; i < eventCount; i++ {
		st.events = append(st.events, makeEvent(fmt.Sprintf("E%d", i), rows, cols))
	}
	svc := newTestService(st)

	var wg sync.WaitGroup
	for i := 0; i < eventCount; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			eventID := fmt.Sprintf("E%d", n)
			for r := 1; r <= rows; r++ {
				for c := 1; c <= cols; c++ {
					_, err := svc.ReserveSeats(context.Background(), models.BookingRequest{
						EventID:       eventID,
						SeatIDs:       []string{fmt.Sprintf("R%dC%d", r, c)},
						PaymentMethod: models.PaymentMethodDummyPay,
						UserID:        fmt.Sprintf("U%d", n),
					})
					assert.NoError(t, err)
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < eventCount; i++ {
		stored := st.storedEvent(t, fmt.Sprintf("E%d", i))
		assert.Equal(t, 0, stored.AvailableSeats(), "event E%d lost seat mutations", i)
	}
	require.Len(t, st.bookings, eventCount*rows*cols)
}

// Admin writes go through the same whole-collection save, so a publish toggle
// loaded before a booking committed must not revert that booking's seats.
// Both services share the collection guards, which is what this exercises.
func TestReserveSeats_ConcurrentWithAdminWrites(t *testing.T) {
	st := &memStore{events: []models.Event{makeEvent("E1", 4, 4), makeEvent("E2", 2, 2)}}
	guards := &store.Guards{}
	bookingSvc := booking.NewService(st, st, guards, booking.NewKeyedLock(), nil, logger.NewLogger())
	eventSvc := event.NewService(st, guards, logger.NewLogger())

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for r := 1; r <= 4; r++ {
			for c := 1; c <= 4; c++ {
				_, err := bookingSvc.ReserveSeats(context.Background(), models.BookingRequest{
					EventID:       "E1",
					SeatIDs:       []string{fmt.Sprintf("R%dC%d", r, c)},
					PaymentMethod: models.PaymentMethodDummyPay,
					UserID:        "U1",
				})
				assert.NoError(t, err)
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 16; i++ {
			_, err := eventSvc.SetPublished(context.Background(), "E2", i%2 == 0)
			assert.NoError(t, err)
		}
	}()

	wg.Wait()

	stored := st.storedEvent(t, "E1")
	assert.Equal(t, 0, stored.AvailableSeats(), "publish toggles reverted booked seats")
	require.Len(t, st.bookings, 16)
}

func TestGetBookingWithEvent(t *testing.T) {
	evt := makeEvent("E1", 2, 2)
	store := &memStore{
		events: []models.Event{evt},
		bookings: []models.Booking{{
			ID:            "B1",
			EventID:       "E1",
			UserID:        "U1",
			Seats:         []string{"R1C1"},
			BookingTime:   time.Now(),
			PaymentStatus: models.PaymentStatusPaid,
		}},
	}
	svc := newTestService(store)

	detail, err := svc.GetBookingWithEvent(context.Background(), "B1", "U1")
	require.NoError(t, err)
	assert.Equal(t, "B1", detail.Booking.ID)
	assert.Equal(t, evt.Name, detail.Event.Name)
	assert.Equal(t, 2, detail.Event.Rows)

	_, err = svc.GetBookingWithEvent(context.Background(), "B1", "U2")
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = svc.GetBookingWithEvent(context.Background(), "missing", "U1")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestGetBookingWithEvent_DataInconsistency(t *testing.T) {
	store := &memStore{
		bookings: []models.Booking{{
			ID:      "B1",
			EventID: "gone",
			UserID:  "U1",
			Seats:   []string{"R1C1"},
		}},
	}
	svc := newTestService(store)

	_, err := svc.GetBookingWithEvent(context.Background(), "B1", "U1")
	assert.ErrorIs(t, err, booking.ErrDataInconsistency)
}

func TestListBookingsForUser(t *testing.T) {
	evt := makeEvent("E1", 2, 2)
	evt.Name = "Summer Concert"
	store := &memStore{
		events: []models.Event{evt},
		bookings: []models.Booking{
			{ID: "B1", EventID: "E1", UserID: "U1", Seats: []string{"R1C1"}},
			{ID: "B2", EventID: "gone", UserID: "U1", Seats: []string{"R2C2"}},
			{ID: "B3", EventID: "E1", UserID: "U2", Seats: []string{"R1C2"}},
		},
	}
	svc := newTestService(store)

	list, err := svc.ListBookingsForUser(context.Background(), "U1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Summer Concert", list[0].EventName)
	assert.Equal(t, "Unknown Event", list[1].EventName)

	empty, err := svc.ListBookingsForUser(context.Background(), "U9")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
