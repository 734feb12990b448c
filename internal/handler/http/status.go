package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-poll-bot/internal/client"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
)

type healthResponse struct {
	Phase      string `json:"phase"`
	Paused     bool   `json:"paused"`
	NextOffset int64  `json:"next_offset"`
}

// health answers 200 while the client is Ready and 503 otherwise.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	phase := h.status.Phase()

	status := http.StatusServiceUnavailable
	if phase == client.PhaseReady {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(healthResponse{
		Phase:      phase.String(),
		Paused:     h.status.UpdatesPaused(),
		NextOffset: h.status.NextUpdateOffset(),
	})
	if err != nil {
		logger.FromContext(r.Context()).Err(err).Str("func", "*Handler.health").Msg("error writing response")
	}
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(h.version))
}
