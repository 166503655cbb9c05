// Package qr renders a booking receipt as a QR code image for the
// confirmation screen and door check-in.
package qr

import (
	"encoding/json"

	"github.com/skip2/go-qrcode"

	"ms-booking/internal/models"
)

type receipt struct {
	BookingID string   `json:"bookingId"`
	EventID   string   `json:"eventId"`
	Seats     []string `json:"seats"`
}

// Receipt encodes the booking reference as a 256x256 PNG.
func Receipt(booking models.Booking) ([]byte, error) {
	payload, err := json.Marshal(receipt{
		BookingID: booking.ID,
		EventID:   booking.EventID,
		Seats:     booking.Seats,
	})
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(payload), qrcode.Medium, 256)
}
