package console

import (
	"context"
	"io"

	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/syncx"
)

// snapshot is one installed state. run is set only for StateRunning and is
// never shared between two snapshots.
type snapshot struct {
	state State
	run   *reader
}

// Input drives the console state machine. Start/Stop follow the owning
// client's lifecycle, Enable/Disable are the user switch. Methods are safe for
// concurrent use.
type Input struct {
	current *syncx.Cell[*snapshot]
	source  io.Reader
	logger  *logger.Logger
}

// NewInput returns a stopped feed reading newline separated lines from
// source. enabled selects the initial user switch. A nil log discards reader
// diagnostics.
func NewInput(source io.Reader, enabled bool, log *logger.Logger) *Input {
	if log == nil {
		log = logger.Nop()
	}

	initial := StateDisabledUnstarted
	if enabled {
		initial = StateEnabledUnstarted
	}

	return &Input{
		current: syncx.NewCell(&snapshot{state: initial}),
		source:  source,
		logger:  log,
	}
}

// State returns the current state.
func (in *Input) State() State {
	return in.current.Get().state
}

// Start marks the feed started. It returns the resulting state.
func (in *Input) Start() State { return in.apply(EventStart) }

// Stop marks the feed stopped, interrupting a running reader.
func (in *Input) Stop() State { return in.apply(EventStop) }

// Enable turns the user switch on.
func (in *Input) Enable() State { return in.apply(EventEnable) }

// Disable turns the user switch off, interrupting a running reader.
func (in *Input) Disable() State { return in.apply(EventDisable) }

// apply installs Transition(current, e) with a compare-and-set, then runs the
// exit hook of the replaced state before the enter hook of the new one.
func (in *Input) apply(e Event) State {
	for {
		cur := in.current.Get()
		next := Transition(cur.state, e)
		if next == cur.state {
			return next
		}

		installed := &snapshot{state: next}
		if next == StateRunning {
			installed.run = newReader(in.logger)
		}
		if !in.current.CompareAndSet(cur, installed) {
			continue
		}

		in.logger.Debug().
			Stringer("from", cur.state).
			Stringer("to", next).
			Stringer("event", e).
			Msg("console state changed")

		if cur.run != nil {
			cur.run.end()
		}
		if installed.run != nil {
			installed.run.begin(in.source)
		}
		return next
	}
}

// GetLine returns the next console line. It suspends until the feed is
// running, then until a line arrives. ok is false once the source reached end
// of stream. When the feed leaves the running state during the wait, GetLine
// keeps waiting for the next running period.
func (in *Input) GetLine(ctx context.Context) (string, bool, error) {
	for {
		snap, err := in.current.WaitUntil(ctx, func(s *snapshot) bool {
			return s.state == StateRunning
		})
		if err != nil {
			return "", false, err
		}

		select {
		case line, ok := <-snap.run.lines:
			return line, ok, nil
		case <-snap.run.ended:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
}

// readerAlive reports whether a reader goroutine is currently running.
func (in *Input) readerAlive() bool {
	snap := in.current.Get()
	return snap.run != nil && snap.run.alive()
}
