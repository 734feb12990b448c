// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package console implements the line-oriented console input feed of the
// bot.
//
// The feed is a four state machine over {enabled, disabled} x {started,
// stopped}. [Transition] is the pure transition table; [Input] drives it and
// owns the background reader that exists only in [StateRunning].
package console

// State is one of the four console feed states.
type State int

const (
	StateDisabledUnstarted State = iota
	StateDisabledStarted
	StateEnabledUnstarted
	// StateRunning is enabled and started; only this state owns a reader.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateDisabledUnstarted:
		return "disabled-unstarted"
	case StateDisabledStarted:
		return "disabled-started"
	case StateEnabledUnstarted:
		return "enabled-unstarted"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Event is an input to the state machine.
type Event int

const (
	EventStart Event = iota
	EventStop
	EventEnable
	EventDisable
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	case EventEnable:
		return "enable"
	case EventDisable:
		return "disable"
	default:
		return "unknown"
	}
}

// Transition returns the state reached from s on e. Events that do not apply
// to s leave it unchanged.
func Transition(s State, e Event) State {
	switch e {
	case EventStart:
		switch s {
		case StateDisabledUnstarted:
			return StateDisabledStarted
		case StateEnabledUnstarted:
			return StateRunning
		}
	case EventStop:
		switch s {
		case StateDisabledStarted:
			return StateDisabledUnstarted
		case StateRunning:
			return StateEnabledUnstarted
		}
	case EventEnable:
		switch s {
		case StateDisabledUnstarted:
			return StateEnabledUnstarted
		case StateDisabledStarted:
			return StateRunning
		}
	case EventDisable:
		switch s {
		case StateEnabledUnstarted:
			return StateDisabledUnstarted
		case StateRunning:
			return StateDisabledStarted
		}
	}
	return s
}
