package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/models"
	"ms-booking/internal/seatmap"
	"ms-booking/internal/stats"
)

type memStore struct {
	events   []models.Event
	bookings []models.Booking
	fail     bool
}

func (m *memStore) LoadEvents(context.Context) ([]models.Event, error) {
	if m.fail {
		return nil, errors.New("disk gone")
	}
	return m.events, nil
}

func (m *memStore) SaveEvents(_ context.Context, events []models.Event) error {
	m.events = events
	return nil
}

func (m *memStore) LoadBookings(context.Context) ([]models.Booking, error) {
	if m.fail {
		return nil, errors.New("disk gone")
	}
	return m.bookings, nil
}

func (m *memStore) SaveBookings(_ context.Context, bookings []models.Booking) error {
	m.bookings = bookings
	return nil
}

func newEvent(id string, rows, cols int, published bool) models.Event {
	return models.Event{
		ID:        id,
		Name:      "Event " + id,
		Date:      time.Now().Add(24 * time.Hour),
		Published: published,
		Rows:      rows,
		Cols:      cols,
		Capacity:  rows * cols,
		Seats:     seatmap.Generate(rows, cols),
	}
}

func TestGetOverview(t *testing.T) {
	user := "U1"
	e1 := newEvent("E1", 2, 2, true)
	e1.Seats[0][0].IsBooked = true
	e1.Seats[0][0].UserID = &user
	e1.Seats[0][1].IsBooked = true
	e1.Seats[0][1].UserID = &user
	e2 := newEvent("E2", 3, 3, false)

	st := &memStore{
		events: []models.Event{e1, e2},
		bookings: []models.Booking{
			{ID: "B1", EventID: "E1", UserID: user, Seats: []string{"R1C1", "R1C2"}},
		},
	}

	overview, err := stats.NewService(st, st).GetOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, overview.TotalEvents)
	assert.Equal(t, 1, overview.TotalBookings)
	assert.Equal(t, 2, overview.TotalSeatsBooked)
	require.Len(t, overview.Events, 2)

	assert.Equal(t, "E1", overview.Events[0].EventID)
	assert.Equal(t, 4, overview.Events[0].Capacity)
	assert.Equal(t, 2, overview.Events[0].SeatsBooked)
	assert.Equal(t, 1, overview.Events[0].Bookings)
	assert.InDelta(t, 0.5, overview.Events[0].Occupancy, 1e-9)

	assert.Equal(t, 0, overview.Events[1].SeatsBooked)
	assert.Equal(t, 0, overview.Events[1].Bookings)
	assert.Zero(t, overview.Events[1].Occupancy)
}

func TestGetOverview_StorageFailure(t *testing.T) {
	st := &memStore{fail: true}

	_, err := stats.NewService(st, st).GetOverview(context.Background())
	assert.ErrorIs(t, err, stats.ErrStorageUnavailable)
}
