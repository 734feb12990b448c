// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncx

import (
	"context"
	"sync/atomic"
)

// cellBox is an immutable snapshot of a Cell value. changed is closed by the
// single writer that replaces the box.
type cellBox[T comparable] struct {
	value   T
	changed chan struct{}
}

func newCellBox[T comparable](v T) *cellBox[T] {
	return &cellBox[T]{value: v, changed: make(chan struct{})}
}

// Cell is an atomic variable that can be waited on.
//
// Reads are synchronous. Writers replace an immutable snapshot with a
// compare-and-swap, so read-modify-write helpers retry the whole operation on
// interference instead of taking a lock. The zero value holds the zero T.
type Cell[T comparable] struct {
	p atomic.Pointer[cellBox[T]]
}

// NewCell returns a Cell holding v.
func NewCell[T comparable](v T) *Cell[T] {
	c := &Cell[T]{}
	c.p.Store(newCellBox(v))
	return c
}

func (c *Cell[T]) load() *cellBox[T] {
	if b := c.p.Load(); b != nil {
		return b
	}
	var zero T
	c.p.CompareAndSwap(nil, newCellBox(zero))
	return c.p.Load()
}

// replace installs next if old is still current and wakes old's waiters.
func (c *Cell[T]) replace(old *cellBox[T], v T) bool {
	if !c.p.CompareAndSwap(old, newCellBox(v)) {
		return false
	}
	close(old.changed)
	return true
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.load().value
}

// Set stores v unconditionally.
func (c *Cell[T]) Set(v T) {
	c.GetAndSet(v)
}

// GetAndSet stores v and returns the previous value.
func (c *Cell[T]) GetAndSet(v T) T {
	for {
		old := c.load()
		if c.replace(old, v) {
			return old.value
		}
	}
}

// CompareAndSet stores next only if the current value equals expect.
func (c *Cell[T]) CompareAndSet(expect, next T) bool {
	for {
		old := c.load()
		if old.value != expect {
			return false
		}
		if c.replace(old, next) {
			return true
		}
	}
}

// Update applies fn to the current value until the result is stored without
// interference. fn may run several times and must not have side effects.
func (c *Cell[T]) Update(fn func(T) T) {
	c.GetAndUpdate(fn)
}

// UpdateAndGet is Update returning the stored value.
func (c *Cell[T]) UpdateAndGet(fn func(T) T) T {
	for {
		old := c.load()
		next := fn(old.value)
		if c.replace(old, next) {
			return next
		}
	}
}

// GetAndUpdate is Update returning the value it replaced.
func (c *Cell[T]) GetAndUpdate(fn func(T) T) T {
	for {
		old := c.load()
		if c.replace(old, fn(old.value)) {
			return old.value
		}
	}
}

// Wait blocks until the value differs from the one observed at call time and
// returns the new value.
func (c *Cell[T]) Wait(ctx context.Context) (T, error) {
	b := c.load()
	observed := b.value
	return c.waitFrom(ctx, b, func(v T) bool { return v != observed })
}

// WaitUntil returns as soon as pred holds for the current value. When pred
// already holds it returns without suspending.
func (c *Cell[T]) WaitUntil(ctx context.Context, pred func(T) bool) (T, error) {
	b := c.load()
	if pred(b.value) {
		return b.value, nil
	}
	return c.waitFrom(ctx, b, pred)
}

// WaitWhile returns as soon as pred no longer holds for the current value.
func (c *Cell[T]) WaitWhile(ctx context.Context, pred func(T) bool) (T, error) {
	return c.WaitUntil(ctx, func(v T) bool { return !pred(v) })
}

func (c *Cell[T]) waitFrom(ctx context.Context, b *cellBox[T], pred func(T) bool) (T, error) {
	for {
		select {
		case <-b.changed:
			b = c.load()
			if pred(b.value) {
				return b.value, nil
			}
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}
