// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix - prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       - direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds bot identity settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote API address, timeouts and outbound rate limit.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds the poll, occasion and console loop settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Storage holds the session store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Metrics holds the optional metrics endpoint settings.
	Metrics Metrics `envPrefix:"METRICS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds bot identity settings.
type App struct {
	// Token is the bot credential issued by the remote API.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// Version is reported in logs at startup.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Adapter holds settings of the outbound HTTP transport.
type Adapter struct {
	// HTTPAddress is the base URL of the remote API
	// (e.g. "https://api.telegram.org").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single call. Long polls get the poll timeout
	// on top of it.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RateLimit is the sustained number of outbound calls per second.
	// Env: ADAPTER_RATE_LIMIT
	RateLimit float64 `env:"RATE_LIMIT"`

	// RateBurst is the number of calls allowed above RateLimit in a burst.
	// Env: ADAPTER_RATE_BURST
	RateBurst int `env:"RATE_BURST"`
}

// Workers holds the loop settings.
type Workers struct {
	// PollTimeout is the server-side long-poll hold time.
	// Env: WORKERS_POLL_TIMEOUT
	PollTimeout time.Duration `env:"POLL_TIMEOUT"`

	// OccasionInterval is the period of the occasion callback.
	// Env: WORKERS_OCCASION_INTERVAL
	OccasionInterval time.Duration `env:"OCCASION_INTERVAL"`

	// PollFailureDelay is the pause after a failed poll.
	// Env: WORKERS_POLL_FAILURE_DELAY
	PollFailureDelay time.Duration `env:"POLL_FAILURE_DELAY"`

	// AllowedUpdates is a comma separated list of update kinds. Empty means
	// server default, "none" means no kinds at all.
	// Env: WORKERS_ALLOWED_UPDATES
	AllowedUpdates string `env:"ALLOWED_UPDATES"`

	// ConsoleInput enables the console line reader.
	// Env: WORKERS_CONSOLE_INPUT
	ConsoleInput *bool `env:"CONSOLE_INPUT"`
}

// Storage groups the session store settings.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`

	// CacheSize is the number of users whose sessions are kept in memory.
	// Env: STORAGE_CACHE_SIZE
	CacheSize int `env:"CACHE_SIZE"`
}

// DB holds connection settings for the session database.
type DB struct {
	// DSN is either a sqlite file path or a postgres:// URL.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Metrics holds the metrics endpoint settings.
type Metrics struct {
	// Address is the host:port the metrics endpoint listens on. Empty
	// disables the endpoint.
	// Env: METRICS_ADDRESS
	Address string `env:"ADDRESS"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
