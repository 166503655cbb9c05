package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment methods accepted at booking time and the statuses derived from them.
// There is no payment-confirmation workflow: the status is fixed at creation.
const (
	PaymentMethodDummyPay   = "dummy_pay"
	PaymentMethodPayAtEvent = "pay_at_event"

	PaymentStatusPaid       = "paid"
	PaymentStatusPayAtEvent = "pay_at_event"
)

// Booking is a denormalized receipt of a successful seat reservation. The
// seat grid on the event stays the single source of truth for occupancy.
type Booking struct {
	bun.BaseModel `bun:"table:bookings" json:"-"`

	ID            string    `bun:"id,pk" json:"id"`
	EventID       string    `bun:"event_id,notnull" json:"eventId"`
	UserID        string    `bun:"user_id,notnull" json:"userId"`
	Seats         []string  `bun:"seats" json:"seats"`
	BookingTime   time.Time `bun:"booking_time,notnull" json:"bookingTime"`
	PaymentStatus string    `bun:"payment_status,notnull" json:"paymentStatus"`
}

// BookingWithEvent pairs a booking with its event's metadata for the
// confirmation view.
type BookingWithEvent struct {
	Booking Booking      `json:"booking"`
	Event   EventDetails `json:"event"`
}

// UserBooking is a booking enriched with the event name for history listings.
type UserBooking struct {
	Booking
	EventName string `json:"eventName"`
}
