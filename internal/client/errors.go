package client

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned by Run when a run is in progress.
	ErrAlreadyRunning = errors.New("client is already running")
	// ErrNotReady is returned by remote calls made outside PreReady, Ready
	// and PostReady.
	ErrNotReady = errors.New("client is not ready")
	// ErrNoTransport is returned by New without a transport.
	ErrNoTransport = errors.New("transport is required")
)

// PanicError is a recovered listener panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
