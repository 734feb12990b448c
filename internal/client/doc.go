// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the lifecycle engine of a long-polling bot.
//
// A [Client] owns the remote transport and a phase state machine. Each call
// to [Client.Run] walks the phases NotRunning, Initializing, Launching,
// PreReady, Ready, PostReady, Finalizing and back to NotRunning, and runs
// three loops while Ready: the update poll loop, the periodic occasion loop
// and the console input loop. Listener failures are isolated per dispatch and
// routed to the [ExceptionHandler].
//
// [Client.SignalStop] stops the loops gracefully: the listener that is
// currently running finishes, nothing further is dispatched. [Client.Halt]
// additionally cancels the context handed to listeners, so a dispatch in
// flight may be abandoned at its next blocking call. Which dispatches are
// abandoned under Halt depends on timing.
package client
