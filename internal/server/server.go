package server

import (
	"net/http"

	"github.com/MKhiriev/go-poll-bot/internal/config"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
)

// NewServer returns the operational HTTP server for cfg. It fails with
// errNoServersAreCreated when no address is configured.
func NewServer(handler http.Handler, cfg config.ClientMetrics, logger *logger.Logger) (Server, error) {
	if cfg.Address == "" {
		return nil, errNoServersAreCreated
	}

	logger.Info().Str("address", cfg.Address).Msg("creating new server...")
	return newHTTPServer(handler, cfg.Address, logger), nil
}
