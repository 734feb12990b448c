// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package syncx provides the small set of waiting primitives the bot runtime
// is built from.
//
//   - [Signal] is a broadcast wake-up carrying the latest value, with no
//     queueing and no backpressure.
//   - [Cell] is an atomic variable whose readers can suspend until the value
//     changes or a predicate holds. Compound updates are optimistic CAS loops.
//   - [Gate] is a single-assignment value with suspend-until-set semantics;
//     [ClosableGate] can additionally be cleared and reopened.
//
// Every blocking call takes a context.Context and returns ctx.Err() when the
// context is done. No primitive busy-polls: waiters park on channels that are
// closed exactly once by the writer that invalidates them.
package syncx
