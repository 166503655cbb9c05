package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events" json:"-"`

	ID             string    `bun:"id,pk" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Description    string    `bun:"description" json:"description"`
	Date           time.Time `bun:"date,notnull" json:"date"`
	Location       string    `bun:"location" json:"location"`
	LocationURL    string    `bun:"location_url,nullzero" json:"locationUrl,omitempty"`
	Capacity       int       `bun:"capacity" json:"capacity"`
	Price          float64   `bun:"price" json:"price"`
	Category       string    `bun:"category" json:"category"`
	PosterImageURL string    `bun:"poster_image_url,nullzero" json:"posterImageUrl,omitempty"`
	BannerImageURL string    `bun:"banner_image_url,nullzero" json:"bannerImageUrl,omitempty"`
	Published      bool      `bun:"published" json:"published"`
	Rows           int       `bun:"rows,notnull" json:"rows"`
	Cols           int       `bun:"cols,notnull" json:"cols"`
	Seats          [][]Seat  `bun:"seats" json:"seats"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Clone returns a deep copy of the event. The reservation engine mutates the
// copy during a booking transaction so the shared collection never sees a
// half-booked grid.
func (e *Event) Clone() *Event {
	clone := *e
	clone.Seats = make([][]Seat, len(e.Seats))
	for r, row := range e.Seats {
		clone.Seats[r] = make([]Seat, len(row))
		copy(clone.Seats[r], row)
	}
	return &clone
}

// AvailableSeats counts the unbooked seats in the grid.
func (e *Event) AvailableSeats() int {
	n := 0
	for _, row := range e.Seats {
		for _, seat := range row {
			if !seat.IsBooked {
				n++
			}
		}
	}
	return n
}

// EventDetails is an event without its seat grid. Booking views return this
// shape so one user's receipt doesn't leak everyone else's seat occupancy.
type EventDetails struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	LocationURL    string    `json:"locationUrl,omitempty"`
	Price          float64   `json:"price"`
	Category       string    `json:"category"`
	PosterImageURL string    `json:"posterImageUrl,omitempty"`
	Published      bool      `json:"published"`
	Rows           int       `json:"rows"`
	Cols           int       `json:"cols"`
}

func (e *Event) Details() EventDetails {
	return EventDetails{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		Date:           e.Date,
		Location:       e.Location,
		LocationURL:    e.LocationURL,
		Price:          e.Price,
		Category:       e.Category,
		PosterImageURL: e.PosterImageURL,
		Published:      e.Published,
		Rows:           e.Rows,
		Cols:           e.Cols,
	}
}

// EventSummary is the public listing shape: no grid, plus a live availability count.
type EventSummary struct {
	EventDetails
	AvailableSeats int `json:"availableSeats"`
}
