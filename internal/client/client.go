package client

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/MKhiriev/go-poll-bot/internal/adapter"
	"github.com/MKhiriev/go-poll-bot/internal/console"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/metrics"
	"github.com/MKhiriev/go-poll-bot/internal/syncx"
	"github.com/MKhiriev/go-poll-bot/internal/utils"
	"github.com/MKhiriev/go-poll-bot/models"
)

// Client is a long-polling bot bound to one transport. A Client can be run
// again after a run has finished.
type Client struct {
	transport  adapter.Transport
	updates    UpdateListener
	lifecycle  LifecycleListener
	exceptions ExceptionHandler
	input      *console.Input
	metrics    *metrics.Runtime
	logger     *logger.Logger
	ids        *utils.UUIDGenerator

	pollTimeout      time.Duration
	occasionInterval time.Duration
	pollFailureDelay time.Duration
	allowedUpdates   []string

	phase  *syncx.Cell[Phase]
	paused *syncx.Cell[bool]
	offset *syncx.Cell[int64]

	// mu serializes the phase changes made by Run and the stop requests.
	mu    sync.Mutex
	run   syncx.ClosableGate[*runHandle]
	ready syncx.ClosableGate[string]
}

// New returns a stopped Client using transport. Missing listeners default to
// no-ops, the exception handler to a [PrintExceptionHandler] on stderr.
func New(transport adapter.Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}

	c := &Client{
		transport:        transport,
		pollTimeout:      DefaultPollTimeout,
		occasionInterval: DefaultOccasionInterval,
		pollFailureDelay: DefaultPollFailureDelay,
		phase:            syncx.NewCell(PhaseNotRunning),
		paused:           syncx.NewCell(false),
		offset:           syncx.NewCell[int64](-1),
		ids:              utils.NewUUIDGenerator(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.updates == nil {
		c.updates = UpdateFunc(nopUpdates)
	}
	if c.lifecycle == nil {
		c.lifecycle = NopLifecycle{}
	}
	if c.exceptions == nil {
		c.exceptions = NewPrintExceptionHandler(os.Stderr)
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	if c.input == nil {
		c.input = console.NewInput(os.Stdin, false, c.logger)
	}
	if c.metrics == nil {
		c.metrics = metrics.NewRuntime(nil)
	}
	if c.occasionInterval <= 0 {
		c.occasionInterval = DefaultOccasionInterval
	}
	if c.pollTimeout < 0 {
		c.pollTimeout = 0
	}

	return c, nil
}

// Phase returns the current lifecycle phase.
func (c *Client) Phase() Phase {
	return c.phase.Get()
}

// Input returns the console feed, e.g. to enable or disable it at runtime.
func (c *Client) Input() *console.Input {
	return c.input
}

// NextUpdateOffset returns the cursor sent with the next poll: -1 until the
// first non-empty poll, then one past the highest update id seen.
func (c *Client) NextUpdateOffset() int64 {
	return c.offset.Get()
}

// PauseUpdates makes the poll loop wait before its next poll.
func (c *Client) PauseUpdates() {
	c.paused.Set(true)
}

// ResumeUpdates lets a paused poll loop continue.
func (c *Client) ResumeUpdates() {
	c.paused.Set(false)
}

// UpdatesPaused reports whether polling is paused.
func (c *Client) UpdatesPaused() bool {
	return c.paused.Get()
}

// AwaitReady blocks until the current or next run is Ready and returns its
// run id.
func (c *Client) AwaitReady(ctx context.Context) (string, error) {
	return c.ready.Wait(ctx)
}

// Join blocks until the current run, if any, has finished. It must not be
// called from a listener.
func (c *Client) Join(ctx context.Context) error {
	run, ok := c.run.Value()
	if !ok {
		return nil
	}

	select {
	case <-run.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call invokes a remote API method. It fails with [ErrNotReady] outside
// PreReady, Ready and PostReady.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	if !c.phase.Get().AllowsCalls() {
		return ErrNotReady
	}
	return c.transport.Call(ctx, method, params, result)
}

// GetMe returns the bot's own account.
func (c *Client) GetMe(ctx context.Context) (models.User, error) {
	var me models.User
	err := c.Call(ctx, "getMe", nil, &me)
	return me, err
}

// SendMessage sends text to chatID and returns the sent message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (models.Message, error) {
	var msg models.Message
	err := c.Call(ctx, "sendMessage", models.SendMessageRequest{ChatID: chatID, Text: text}, &msg)
	return msg, err
}

func (c *Client) setPhase(p Phase) {
	c.phase.Set(p)
	c.metrics.SetPhase(int(p))
}

func (c *Client) casPhase(from, to Phase) bool {
	if !c.phase.CompareAndSet(from, to) {
		return false
	}
	c.metrics.SetPhase(int(to))
	return true
}
