package http

import (
	"github.com/MKhiriev/go-poll-bot/internal/client"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// StatusProvider is the read side of a running bot client.
type StatusProvider interface {
	Phase() client.Phase
	NextUpdateOffset() int64
	UpdatesPaused() bool
}

type Handler struct {
	status   StatusProvider
	gatherer prometheus.Gatherer
	version  string

	logger *logger.Logger
}

func NewHandler(status StatusProvider, gatherer prometheus.Gatherer, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		status:   status,
		gatherer: gatherer,
		version:  version,
		logger:   logger,
	}
}
