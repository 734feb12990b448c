// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncx

import (
	"context"
	"sync"
)

// generation is one round of waiters. All waiters parked on the same
// generation observe the same value.
type generation[T any] struct {
	done  chan struct{}
	value T
}

// Signal wakes every goroutine currently blocked in [Signal.Wait].
//
// Signals are not queued: a waiter that arrives after a Signal call waits for
// the next one, and a burst of Signal calls with nobody waiting is lost. The
// zero value is ready to use.
type Signal[T any] struct {
	mu  sync.Mutex
	gen *generation[T]
}

// Signal publishes v to all current waiters. It never blocks.
func (s *Signal[T]) Signal(v T) {
	s.mu.Lock()
	g := s.gen
	s.gen = nil
	s.mu.Unlock()

	if g == nil {
		return
	}
	g.value = v
	close(g.done)
}

// Wait blocks until the next Signal call and returns its value.
func (s *Signal[T]) Wait(ctx context.Context) (T, error) {
	s.mu.Lock()
	if s.gen == nil {
		s.gen = &generation[T]{done: make(chan struct{})}
	}
	g := s.gen
	s.mu.Unlock()

	select {
	case <-g.done:
		return g.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
