package client

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/MKhiriev/go-poll-bot/internal/adapter"
	"github.com/MKhiriev/go-poll-bot/internal/metrics"
	"github.com/MKhiriev/go-poll-bot/models"
)

// pollLoop fetches updates and dispatches them in order until ctx ends.
func (c *Client) pollLoop(ctx context.Context, run *runHandle) error {
	if _, err := c.ready.Wait(ctx); err != nil {
		return nil
	}

	for ctx.Err() == nil {
		if _, err := c.paused.WaitWhile(ctx, func(paused bool) bool { return paused }); err != nil {
			return nil
		}

		updates, err := c.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.report(run.dispatchCtx, fmt.Errorf("poll updates: %w", err))

			delay := c.pollFailureDelay
			if retryAfter, ok := adapter.RetryAfter(err); ok {
				delay = retryAfter
			}
			if !sleep(ctx, delay) {
				return nil
			}
			continue
		}

		for _, update := range updates {
			// a stop lets the running listener finish but skips the rest
			if ctx.Err() != nil {
				return nil
			}
			c.dispatch(run.dispatchCtx, metrics.LoopUpdates, fmt.Sprintf("update %d", update.ID), func(ctx context.Context) error {
				return c.updates.OnUpdate(ctx, c, update)
			})
		}
	}

	return nil
}

// poll performs one guarded long poll and advances the cursor past the
// returned updates.
func (c *Client) poll(ctx context.Context) ([]models.Update, error) {
	req := models.UpdatesRequest{
		Timeout:        int(c.pollTimeout / time.Second),
		Offset:         c.offset.Get(),
		AllowedUpdates: c.allowedUpdates,
	}

	var updates []models.Update
	start := time.Now()
	err := guard(ctx, func(ctx context.Context) error {
		var err error
		updates, err = c.transport.GetUpdates(ctx, req)
		return err
	})
	c.metrics.ObservePoll(len(updates), err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, nil
	}

	last := updates[0].ID
	for _, u := range updates[1:] {
		last = max(last, u.ID)
	}
	c.offset.Update(func(offset int64) int64 { return max(offset, last+1) })

	return updates, nil
}

// occasionLoop starts a detached OnOccasion dispatch every interval.
func (c *Client) occasionLoop(ctx context.Context, run *runHandle) error {
	if _, err := c.ready.Wait(ctx); err != nil {
		return nil
	}

	for {
		run.detached.Add(1)
		go func() {
			defer run.detached.Done()
			c.dispatch(run.dispatchCtx, metrics.LoopOccasion, "occasion", func(ctx context.Context) error {
				return c.lifecycle.OnOccasion(ctx, c)
			})
		}()

		if !sleep(ctx, c.occasionInterval) {
			return nil
		}
	}
}

// inputLoop forwards console lines until ctx ends or the console reaches end
// of stream.
func (c *Client) inputLoop(ctx context.Context, run *runHandle) error {
	if _, err := c.ready.Wait(ctx); err != nil {
		return nil
	}

	for {
		line, ok, err := c.input.GetLine(ctx)
		if err != nil {
			return nil
		}
		if !ok {
			c.logger.Debug().Str("run_id", run.id).Msg("console input ended")
			return nil
		}

		c.dispatch(run.dispatchCtx, metrics.LoopInput, "input", func(ctx context.Context) error {
			return c.lifecycle.OnInput(ctx, c, line)
		})
	}
}

// dispatch runs one guarded listener call and reports its failure. Errors
// caused by the cancellation of ctx are not reported.
func (c *Client) dispatch(ctx context.Context, loop, what string, fn func(context.Context) error) {
	err := guard(ctx, fn)
	c.metrics.ObserveDispatch(loop, err)
	if err == nil {
		return
	}
	if ctx.Err() != nil && isCancellation(err) {
		return
	}
	c.report(ctx, fmt.Errorf("%s: %w", what, err))
}

// report hands err to the exception handler. A panicking handler is logged.
func (c *Client) report(ctx context.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Err(err).Interface("panic", r).Msg("exception handler panicked")
		}
	}()
	c.exceptions.OnException(ctx, err)
}

// guard calls fn and turns a panic into a *PanicError.
func guard(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
