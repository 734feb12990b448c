package client

// Phase is the lifecycle phase of a [Client]. Phases are ordered; within one
// run they only move forward.
type Phase int32

const (
	PhaseNotRunning Phase = iota
	PhaseInitializing
	PhaseLaunching
	PhasePreReady
	PhaseReady
	PhasePostReady
	PhaseFinalizing
)

// StopPolicy tells a stop request what to do in a phase.
type StopPolicy int

const (
	// StopIgnore makes the request a no-op.
	StopIgnore StopPolicy = iota
	// StopSuspend makes the request wait for a later phase.
	StopSuspend
	// StopOK lets the request proceed.
	StopOK
)

// StopPolicy returns how stop requests are treated in p.
func (p Phase) StopPolicy() StopPolicy {
	switch p {
	case PhaseInitializing, PhaseLaunching, PhasePreReady:
		return StopSuspend
	case PhaseReady:
		return StopOK
	default:
		return StopIgnore
	}
}

// AllowsCalls reports whether remote calls may be issued in p.
func (p Phase) AllowsCalls() bool {
	return p == PhasePreReady || p == PhaseReady || p == PhasePostReady
}

func (p Phase) String() string {
	switch p {
	case PhaseNotRunning:
		return "not-running"
	case PhaseInitializing:
		return "initializing"
	case PhaseLaunching:
		return "launching"
	case PhasePreReady:
		return "pre-ready"
	case PhaseReady:
		return "ready"
	case PhasePostReady:
		return "post-ready"
	case PhaseFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}
