package client

import (
	"context"

	"github.com/MKhiriev/go-poll-bot/models"
)

// UpdateListener receives every update fetched by the poll loop, one at a
// time and in id order.
type UpdateListener interface {
	OnUpdate(ctx context.Context, c *Client, update models.Update) error
}

// UpdateFunc adapts a function to [UpdateListener].
type UpdateFunc func(ctx context.Context, c *Client, update models.Update) error

// OnUpdate calls f.
func (f UpdateFunc) OnUpdate(ctx context.Context, c *Client, update models.Update) error {
	return f(ctx, c, update)
}

// LifecycleListener receives the lifecycle callbacks of a run. OnReady and
// OnStop run synchronously on the Run goroutine; OnOccasion and OnInput run
// on their loops. All of them may issue remote calls.
type LifecycleListener interface {
	// OnReady runs once per run before the loops start dispatching. An error
	// aborts the run.
	OnReady(ctx context.Context, c *Client) error
	// OnOccasion runs every occasion interval.
	OnOccasion(ctx context.Context, c *Client) error
	// OnInput receives one console line.
	OnInput(ctx context.Context, c *Client, line string) error
	// OnStop runs once after the loops have ended, only when OnReady
	// succeeded.
	OnStop(ctx context.Context, c *Client) error
}

// NopLifecycle implements every [LifecycleListener] method as a no-op. Embed
// it to override only some callbacks.
type NopLifecycle struct{}

func (NopLifecycle) OnReady(context.Context, *Client) error { return nil }
func (NopLifecycle) OnOccasion(context.Context, *Client) error { return nil }
func (NopLifecycle) OnInput(context.Context, *Client, string) error { return nil }
func (NopLifecycle) OnStop(context.Context, *Client) error { return nil }

// ExceptionHandler receives every failure isolated by the loops: poll
// failures and listener errors or panics. Cancellation is never reported.
type ExceptionHandler interface {
	OnException(ctx context.Context, err error)
}

// ExceptionFunc adapts a function to [ExceptionHandler].
type ExceptionFunc func(ctx context.Context, err error)

// OnException calls f.
func (f ExceptionFunc) OnException(ctx context.Context, err error) {
	f(ctx, err)
}

func nopUpdates(context.Context, *Client, models.Update) error { return nil }
