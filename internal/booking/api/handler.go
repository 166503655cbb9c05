package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/models"
	"ms-booking/internal/qr"
	"ms-booking/internal/utils"
)

type Handler struct {
	Bookings *booking.Service
}

// CreateBooking handles POST /api/v1/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request format.", err.Error()))
		return
	}
	req.UserID = auth.UserID(r.Context())

	bookingID, err := h.Bookings.ReserveSeats(r.Context(), req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, utils.SuccessResponse("Booking confirmed.", models.BookingResponse{BookingID: bookingID}))
}

// GetBooking handles GET /api/v1/bookings/{bookingId}.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	detail, err := h.Bookings.GetBookingWithEvent(r.Context(), bookingID, auth.UserID(r.Context()))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Booking found.", detail))
}

// GetBookingQR handles GET /api/v1/bookings/{bookingId}/qr and returns the
// receipt as a PNG.
func (h *Handler) GetBookingQR(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	detail, err := h.Bookings.GetBookingWithEvent(r.Context(), bookingID, auth.UserID(r.Context()))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	png, err := qr.Receipt(detail.Booking)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not render booking QR.", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ListMyBookings handles GET /api/v1/users/me/bookings.
func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListBookingsForUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Bookings fetched.", map[string]interface{}{"bookings": bookings}))
}

// writeBookingError owns the error-kind to status-code mapping; the engine
// itself never formats user-facing text.
func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	var perr *booking.PersistenceError

	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Missing required booking information.", err.Error()))
	case errors.Is(err, booking.ErrInvalidSeatID):
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid seat ID.", err.Error()))
	case errors.Is(err, booking.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found.", err.Error()))
	case errors.Is(err, booking.ErrBookingNotFound):
		writeJSON(w, http.StatusNotFound, utils.ErrorResponse("Booking not found.", err.Error()))
	case errors.Is(err, booking.ErrSeatUnavailable):
		writeJSON(w, http.StatusConflict, utils.ErrorResponse("One or more selected seats are no longer available. Please try again.", err.Error()))
	case errors.Is(err, booking.ErrForbidden):
		writeJSON(w, http.StatusForbidden, utils.ErrorResponse("You are not authorized to view this booking.", err.Error()))
	case errors.Is(err, booking.ErrDataInconsistency):
		writeJSON(w, http.StatusNotFound, utils.ErrorResponse("Associated event data not found.", err.Error()))
	case errors.Is(err, booking.ErrStorageUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("Storage is temporarily unavailable. Please try again later.", err.Error()))
	case errors.As(err, &perr):
		if perr.Stage == booking.StageBookingRecord {
			// Retrying would hit SeatUnavailable against the caller's own
			// seats; they need support, not a retry.
			writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Booking record failed to save. Please contact support.", err.Error()))
		} else {
			writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to update event status. Please try again later.", err.Error()))
		}
	default:
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("An internal server error occurred during booking.", err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
