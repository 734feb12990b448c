// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that runs a set of
// named workers concurrently and waits for all of them.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks for the duration of the work and returns when ctx is cancelled
// or the work is exhausted. A nil error means a normal exit; a non-nil error
// cancels the context of every other worker in the same [Workers] set.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// Func adapts a plain function to [Worker].
type Func func(ctx context.Context) error

// Run calls f(ctx).
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}
