package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/utils"
	"github.com/MKhiriev/go-poll-bot/internal/workers"
)

// runHandle is the state of one run. Loops stop when loopCtx is cancelled;
// listeners see dispatchCtx, which is cancelled only by a halt or when the
// run is over.
type runHandle struct {
	id string

	loopCtx      context.Context
	stopLoops    context.CancelFunc
	dispatchCtx  context.Context
	stopDispatch context.CancelFunc

	haltOnce sync.Once
	halted   chan struct{}

	// detached counts occasion dispatches still running.
	detached sync.WaitGroup
	done     chan struct{}
}

func newRunHandle(ctx context.Context, id string, log *logger.Logger) *runHandle {
	loopCtx, stopLoops := context.WithCancel(ctx)
	dispatchCtx, stopDispatch := context.WithCancel(log.WithContext(utils.WithRunID(ctx, id)))

	return &runHandle{
		id:           id,
		loopCtx:      loopCtx,
		stopLoops:    stopLoops,
		dispatchCtx:  dispatchCtx,
		stopDispatch: stopDispatch,
		halted:       make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (r *runHandle) halt() {
	r.haltOnce.Do(func() { close(r.halted) })
	r.stopDispatch()
}

// awaitDetached waits for outstanding occasion dispatches unless the run was
// halted or its context ended.
func (r *runHandle) awaitDetached() {
	finished := make(chan struct{})
	go func() {
		r.detached.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-r.halted:
	case <-r.dispatchCtx.Done():
	}
}

// Run performs one run of the client and blocks until it has finished.
//
// The client becomes Ready after OnReady returns without error; from then on
// the loops dispatch until SignalStop or Halt is called or ctx ends, which
// acts like Halt. OnStop runs once the loops are over. Transport and console
// are released in every case, and their errors are joined to the result.
//
// Run returns ErrAlreadyRunning when another run is in progress, the OnReady
// or OnStop error, or nil after a stop.
func (c *Client) Run(ctx context.Context) (err error) {
	c.mu.Lock()
	if !c.casPhase(PhaseNotRunning, PhaseInitializing) {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	runID := c.ids.Generate()
	log := c.logger.WithRunID(runID)
	run := newRunHandle(ctx, runID, log)
	c.run.TryOpen(run)
	c.mu.Unlock()

	log.Info().Msg("client run started")
	defer func() {
		err = errors.Join(err, c.finalize(run, log))
		log.Info().Err(err).Msg("client run finished")
	}()

	if err = c.transport.Open(ctx); err != nil {
		return fmt.Errorf("open transport: %w", err)
	}
	c.input.Start()
	c.setPhase(PhaseLaunching)

	loops := workers.New(log).
		Add("updates", workers.Func(func(ctx context.Context) error { return c.pollLoop(ctx, run) })).
		Add("occasion", workers.Func(func(ctx context.Context) error { return c.occasionLoop(ctx, run) })).
		Add("input", workers.Func(func(ctx context.Context) error { return c.inputLoop(ctx, run) }))

	loopsDone := make(chan error, 1)
	go func() { loopsDone <- loops.Run(run.loopCtx) }()

	c.setPhase(PhasePreReady)
	if err = guard(run.dispatchCtx, func(ctx context.Context) error { return c.lifecycle.OnReady(ctx, c) }); err != nil {
		run.stopLoops()
		<-loopsDone
		return fmt.Errorf("on ready: %w", err)
	}

	c.setPhase(PhaseReady)
	c.ready.TryOpen(run.id)
	log.Info().Msg("client is ready")

	loopsErr := <-loopsDone
	c.casPhase(PhaseReady, PhasePostReady)
	run.awaitDetached()

	// listeners may still call out while stopping, even after a halt
	stopCtx := context.WithoutCancel(run.dispatchCtx)
	if stopErr := guard(stopCtx, func(ctx context.Context) error { return c.lifecycle.OnStop(ctx, c) }); stopErr != nil {
		loopsErr = errors.Join(loopsErr, fmt.Errorf("on stop: %w", stopErr))
	}

	return loopsErr
}

// finalize releases the run resources and returns the client to NotRunning.
func (c *Client) finalize(run *runHandle, log *logger.Logger) error {
	c.setPhase(PhaseFinalizing)
	run.stopLoops()
	run.stopDispatch()

	var errs []error
	if err := guard(context.Background(), func(context.Context) error { return c.transport.Close() }); err != nil {
		errs = append(errs, fmt.Errorf("close transport: %w", err))
	}
	c.input.Stop()
	c.ready.Close()

	c.mu.Lock()
	c.run.Close()
	c.setPhase(PhaseNotRunning)
	c.mu.Unlock()
	close(run.done)

	if len(errs) > 0 {
		log.Error().Err(errors.Join(errs...)).Msg("finalize failed")
	}
	return errors.Join(errs...)
}

// SignalStop asks the current run to stop gracefully and returns without
// waiting for it; use Join for that. A request made before the run is Ready
// blocks until it is. Requests outside a run, or after another stop won, are
// no-ops.
func (c *Client) SignalStop(ctx context.Context) error {
	return c.stop(ctx, false)
}

// Halt is SignalStop that also cancels the context of running listeners and
// does not wait for detached occasion dispatches. Calling Halt after
// SignalStop escalates the stop in progress.
func (c *Client) Halt(ctx context.Context) error {
	return c.stop(ctx, true)
}

func (c *Client) stop(ctx context.Context, halt bool) error {
	if halt && c.phase.Get() == PhasePostReady {
		if run, ok := c.run.Value(); ok {
			run.halt()
		}
	}

	if c.phase.Get().StopPolicy() == StopIgnore {
		return nil
	}

	phase, err := c.phase.WaitWhile(ctx, func(p Phase) bool { return p.StopPolicy() == StopSuspend })
	if err != nil {
		return err
	}
	if phase.StopPolicy() != StopOK {
		return nil
	}

	c.mu.Lock()
	run, _ := c.run.Value()
	won := c.casPhase(PhaseReady, PhasePostReady)
	c.mu.Unlock()

	if !won {
		if halt && run != nil {
			run.halt()
		}
		return nil
	}

	c.logger.Info().Str("run_id", run.id).Bool("halt", halt).Msg("stop requested")
	c.input.Stop()
	if halt {
		run.halt()
	}
	run.stopLoops()
	return nil
}
