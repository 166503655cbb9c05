package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"ms-booking/internal/stats"
	"ms-booking/internal/utils"
)

type Handler struct {
	Stats *stats.Service
}

// GetOverview handles GET /api/v1/admin/stats.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Stats.GetOverview(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, stats.ErrStorageUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, utils.ErrorResponse("Could not compute stats.", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("Stats computed.", overview))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
