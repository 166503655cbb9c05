package models

// BookingRequest is the input to the reservation engine. UserID comes from the
// auth middleware, never from the request body.
type BookingRequest struct {
	EventID       string   `json:"eventId"`
	SeatIDs       []string `json:"seatIds"`
	PaymentMethod string   `json:"paymentMethod"`
	UserID        string   `json:"-"`
}

type BookingResponse struct {
	BookingID string `json:"bookingId"`
}

type CreateEventRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Date           string  `json:"date"`
	Location       string  `json:"location"`
	LocationURL    string  `json:"locationUrl,omitempty"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	PosterImageURL string  `json:"posterImageUrl,omitempty"`
	BannerImageURL string  `json:"bannerImageUrl,omitempty"`
	Published      bool    `json:"published"`
	Rows           int     `json:"rows"`
	Cols           int     `json:"cols"`
}
