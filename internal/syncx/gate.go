// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncx

import (
	"context"
	"errors"
	"sync"
)

// ErrGateOpen is returned by [Gate.Open] when the gate already holds a value.
var ErrGateOpen = errors.New("gate already open")

// gate holds the shared state of Gate and ClosableGate. opened is closed when
// a value is assigned; closed is closed when the value is cleared. Each is
// replaced by a fresh channel when the gate flips back.
type gate[T any] struct {
	mu     sync.Mutex
	isOpen bool
	value  T
	opened chan struct{}
	closed chan struct{}
}

func (g *gate[T]) init() {
	if g.opened == nil {
		g.opened = make(chan struct{})
	}
	if g.closed == nil {
		g.closed = make(chan struct{})
		if !g.isOpen {
			close(g.closed)
		}
	}
}

func (g *gate[T]) tryOpen(v T) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.init()
	if g.isOpen {
		return false
	}
	g.isOpen = true
	g.value = v
	close(g.opened)
	g.closed = make(chan struct{})
	return true
}

func (g *gate[T]) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.init()
	if !g.isOpen {
		return false
	}
	var zero T
	g.isOpen = false
	g.value = zero
	close(g.closed)
	g.opened = make(chan struct{})
	return true
}

func (g *gate[T]) get() (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value, g.isOpen
}

func (g *gate[T]) wait(ctx context.Context) (T, error) {
	for {
		g.mu.Lock()
		g.init()
		if g.isOpen {
			v := g.value
			g.mu.Unlock()
			return v, nil
		}
		ch := g.opened
		g.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (g *gate[T]) waitClosed(ctx context.Context) error {
	for {
		g.mu.Lock()
		g.init()
		if !g.isOpen {
			g.mu.Unlock()
			return nil
		}
		ch := g.closed
		g.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Gate is a single-assignment value. Readers block in [Gate.Wait] until the
// value is assigned. The zero value is an empty gate.
type Gate[T any] struct {
	g gate[T]
}

// Open assigns v. It returns ErrGateOpen if the gate already holds a value.
func (g *Gate[T]) Open(v T) error {
	if !g.g.tryOpen(v) {
		return ErrGateOpen
	}
	return nil
}

// TryOpen assigns v and reports whether it did.
func (g *Gate[T]) TryOpen(v T) bool {
	return g.g.tryOpen(v)
}

// Value returns the assigned value without blocking.
func (g *Gate[T]) Value() (T, bool) {
	return g.g.get()
}

// IsOpen reports whether the gate holds a value.
func (g *Gate[T]) IsOpen() bool {
	_, ok := g.g.get()
	return ok
}

// Wait returns the value, blocking until it is assigned.
func (g *Gate[T]) Wait(ctx context.Context) (T, error) {
	return g.g.wait(ctx)
}

// ClosableGate is a Gate that can be cleared and opened again. Wait always
// returns the most recently opened value and blocks again after Close.
type ClosableGate[T any] struct {
	Gate[T]
}

// Close clears the value and reports whether the gate was open.
func (g *ClosableGate[T]) Close() bool {
	return g.g.close()
}

// WaitClosed blocks until the gate holds no value.
func (g *ClosableGate[T]) WaitClosed(ctx context.Context) error {
	return g.g.waitClosed(ctx)
}
