// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer between the bot runtime and the
// remote messaging API.
//
// The primary abstraction is [Transport], which decouples the lifecycle engine
// from the wire protocol. The package ships an HTTP/JSON implementation
// ([NewHTTPTransport]) that speaks the "ok/result" envelope used by the API.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for protocol-agnostic error
// handling (e.g. [ErrTooManyRequests] for 429, [ErrUnauthorized] for 401).
// Failures reported by the API itself are additionally available as
// [*APIError] through [errors.As].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-poll-bot/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport defines communication with the remote messaging API.
// Implementations are responsible for serialisation, request deadlines and
// mapping transport-level errors to the sentinel values defined in this
// package. All methods are safe for concurrent use.
type Transport interface {
	// Open prepares the transport for a lifecycle run. It is called once
	// per run before any other method and re-arms a closed transport.
	Open(ctx context.Context) error

	// GetUpdates performs one long-poll request. It returns the updates with
	// id >= req.Offset in ascending id order, or an empty slice when the
	// server hold time elapsed without events.
	GetUpdates(ctx context.Context, req models.UpdatesRequest) ([]models.Update, error)

	// Call invokes an arbitrary API method with params as the JSON body and
	// decodes the result into result when it is non-nil.
	Call(ctx context.Context, method string, params any, result any) error

	// Close releases the resources held for the current run. Calls made
	// after Close fail with [ErrTransportClosed] until Open is called again.
	Close() error
}
