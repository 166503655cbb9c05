package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/event"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

type Handler struct {
	Events *event.Service
}

// ListEvents handles GET /api/v1/events (public, published events only).
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Events.ListPublished(r.Context())
	if err != nil {
		h.writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Events fetched.", map[string]interface{}{"events": summaries}))
}

// GetEvent handles GET /api/v1/events/{eventId}, returning the full seat grid
// for the seat-map view.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	evt, err := h.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		h.writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Event found.", map[string]interface{}{"event": evt}))
}

// CreateEvent handles POST /api/v1/admin/events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request format.", err.Error()))
		return
	}

	evt, err := h.Events.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, utils.SuccessResponse("Event created.", map[string]interface{}{"event": evt}))
}

// SetPublished handles PATCH /api/v1/admin/events/{eventId}/publish.
func (h *Handler) SetPublished(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var body struct {
		Published bool `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request format.", err.Error()))
		return
	}

	evt, err := h.Events.SetPublished(r.Context(), eventID, body.Published)
	if err != nil {
		h.writeEventError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Event updated.", map[string]interface{}{"event": evt.Details()}))
}

func (h *Handler) writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, event.ErrInvalidEvent):
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid event data.", err.Error()))
	case errors.Is(err, event.ErrNotFound):
		writeJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found.", err.Error()))
	case errors.Is(err, event.ErrStorageUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("Storage is temporarily unavailable. Please try again later.", err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("An internal server error occurred.", err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
