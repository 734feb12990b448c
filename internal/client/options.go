package client

import (
	"time"

	"github.com/MKhiriev/go-poll-bot/internal/config"
	"github.com/MKhiriev/go-poll-bot/internal/console"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/metrics"
)

// Defaults used when an option is not supplied.
const (
	DefaultPollTimeout      = 30 * time.Second
	DefaultOccasionInterval = time.Minute
	DefaultPollFailureDelay = time.Second
)

// Option configures a [Client] at construction.
type Option func(*Client)

// WithUpdateListener sets the update listener.
func WithUpdateListener(l UpdateListener) Option {
	return func(c *Client) { c.updates = l }
}

// WithLifecycleListener sets the lifecycle listener.
func WithLifecycleListener(l LifecycleListener) Option {
	return func(c *Client) { c.lifecycle = l }
}

// WithExceptionHandler sets the handler receiving isolated failures.
func WithExceptionHandler(h ExceptionHandler) Option {
	return func(c *Client) { c.exceptions = h }
}

// WithPollTimeout sets the long-poll hold time. It is sent in whole seconds.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Client) { c.pollTimeout = d }
}

// WithOccasionInterval sets the period of OnOccasion.
func WithOccasionInterval(d time.Duration) Option {
	return func(c *Client) { c.occasionInterval = d }
}

// WithPollFailureDelay sets the pause after a failed poll. A retry_after sent
// by the API takes precedence.
func WithPollFailureDelay(d time.Duration) Option {
	return func(c *Client) { c.pollFailureDelay = d }
}

// WithAllowedUpdates sets the allow-list of update kinds. nil keeps the
// server default, an empty non-nil slice requests no kinds.
func WithAllowedUpdates(kinds []string) Option {
	return func(c *Client) {
		if kinds == nil {
			c.allowedUpdates = nil
			return
		}
		c.allowedUpdates = append(make([]string, 0, len(kinds)), kinds...)
	}
}

// WithWorkers applies the loop settings of cfg.
func WithWorkers(cfg config.ClientWorkers) Option {
	return func(c *Client) {
		WithPollTimeout(cfg.PollTimeout)(c)
		WithOccasionInterval(cfg.OccasionInterval)(c)
		WithPollFailureDelay(cfg.PollFailureDelay)(c)
		WithAllowedUpdates(cfg.AllowedUpdates)(c)
	}
}

// WithInput sets the console feed. Without it the client gets a disabled
// feed over standard input.
func WithInput(in *console.Input) Option {
	return func(c *Client) { c.input = in }
}

// WithMetrics sets the collectors updated by the loops.
func WithMetrics(m *metrics.Runtime) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}
