package config

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied by [GetClientConfig] to unset fields.
const (
	DefaultAPIAddress       = "https://api.telegram.org"
	DefaultRequestTimeout   = 10 * time.Second
	DefaultRateLimit        = 30
	DefaultRateBurst        = 5
	DefaultPollTimeout      = 30 * time.Second
	DefaultOccasionInterval = time.Minute
	DefaultPollFailureDelay = time.Second
	DefaultDSN              = "bot-sessions.db"
	DefaultCacheSize        = 256

	// allowNone is the AllowedUpdates value that selects the empty set.
	allowNone = "none"
)

// ClientApp holds bot identity settings.
type ClientApp struct {
	// Token is the bot credential.
	Token string
	// Version is the build version reported at startup.
	Version string
}

// ClientAdapter holds settings used by the transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote API base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound calls.
	RequestTimeout time.Duration
	// RateLimit is the sustained outbound call rate per second.
	RateLimit float64
	// RateBurst is the outbound burst size.
	RateBurst int
}

// ClientWorkers contains the loop settings.
type ClientWorkers struct {
	// PollTimeout is the long-poll hold time.
	PollTimeout time.Duration
	// OccasionInterval is the occasion callback period.
	OccasionInterval time.Duration
	// PollFailureDelay is the pause after a failed poll.
	PollFailureDelay time.Duration
	// AllowedUpdates is nil for the server default or the explicit,
	// possibly empty, list of update kinds.
	AllowedUpdates []string
	// ConsoleInput enables the console reader.
	ConsoleInput bool
}

// ClientDB contains session database settings.
type ClientDB struct {
	// DSN is a sqlite file path or a postgres:// URL.
	DSN string
}

// ClientStorage groups session store settings.
type ClientStorage struct {
	// DB holds database settings.
	DB ClientDB
	// CacheSize is the number of users kept in the in-memory cache.
	CacheSize int
}

// ClientMetrics holds metrics endpoint settings.
type ClientMetrics struct {
	// Address is the listen address; empty disables the endpoint.
	Address string
}

// ClientConfig is the top-level bot configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Workers ClientWorkers
	Storage ClientStorage
	Metrics ClientMetrics
}

// GetClientConfig builds and validates the bot configuration view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			Token:   strings.TrimSpace(cfg.App.Token),
			Version: cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    valueOr(cfg.Adapter.HTTPAddress, DefaultAPIAddress),
			RequestTimeout: valueOr(cfg.Adapter.RequestTimeout, DefaultRequestTimeout),
			RateLimit:      valueOr(cfg.Adapter.RateLimit, DefaultRateLimit),
			RateBurst:      valueOr(cfg.Adapter.RateBurst, DefaultRateBurst),
		},
		Workers: ClientWorkers{
			PollTimeout:      valueOr(cfg.Workers.PollTimeout, DefaultPollTimeout),
			OccasionInterval: valueOr(cfg.Workers.OccasionInterval, DefaultOccasionInterval),
			PollFailureDelay: valueOr(cfg.Workers.PollFailureDelay, DefaultPollFailureDelay),
			AllowedUpdates:   ParseAllowedUpdates(cfg.Workers.AllowedUpdates),
			ConsoleInput:     true,
		},
		Storage: ClientStorage{
			DB:        ClientDB{DSN: valueOr(cfg.Storage.DB.DSN, DefaultDSN)},
			CacheSize: valueOr(cfg.Storage.CacheSize, DefaultCacheSize),
		},
		Metrics: ClientMetrics{Address: cfg.Metrics.Address},
	}
	if cfg.Workers.ConsoleInput != nil {
		clientCfg.Workers.ConsoleInput = *cfg.Workers.ConsoleInput
	}

	return clientCfg
}

// ParseAllowedUpdates turns the comma separated setting into the allow-list:
// "" gives nil (server default), "none" gives an empty list.
func ParseAllowedUpdates(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, allowNone) {
		return []string{}
	}

	kinds := make([]string, 0, strings.Count(raw, ",")+1)
	for _, kind := range strings.Split(raw, ",") {
		if kind = strings.TrimSpace(kind); kind != "" {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func valueOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
