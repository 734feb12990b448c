package server

import "context"

// Server serves until ctx ends and then shuts down.
type Server interface {
	// Run blocks until ctx is cancelled or the listener fails.
	Run(ctx context.Context) error
}
