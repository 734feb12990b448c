package workers

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"golang.org/x/sync/errgroup"
)

type namedWorker struct {
	name   string
	worker Worker
}

// Workers is a set of named workers started together by Run.
type Workers struct {
	workers []namedWorker
	logger  *logger.Logger
}

// New returns an empty set. A nil log discards worker lifecycle messages.
func New(log *logger.Logger) *Workers {
	if log == nil {
		log = logger.Nop()
	}
	return &Workers{logger: log}
}

// Add registers worker under name and returns the set for chaining.
func (w *Workers) Add(name string, worker Worker) *Workers {
	w.workers = append(w.workers, namedWorker{name: name, worker: worker})
	return w
}

// Len reports the number of registered workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker in its own goroutine and waits for all of them.
// It returns the first non-nil worker error; a panicking worker is reported
// as an error instead of crashing the process.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, nw := range w.workers {
		g.Go(func() error {
			return w.runOne(gctx, nw)
		})
	}
	return g.Wait()
}

func (w *Workers) runOne(ctx context.Context, nw namedWorker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Str("worker", nw.name).Bytes("stack", debug.Stack()).Msg("worker panicked")
			err = fmt.Errorf("worker %s panicked: %v", nw.name, r)
		}
	}()

	w.logger.Debug().Str("worker", nw.name).Msg("worker started")
	err = nw.worker.Run(ctx)
	if err != nil {
		w.logger.Err(err).Str("worker", nw.name).Msg("worker failed")
		return fmt.Errorf("worker %s: %w", nw.name, err)
	}
	w.logger.Debug().Str("worker", nw.name).Msg("worker stopped")

	return nil
}
