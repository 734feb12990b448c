// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// UpdatesRequest holds the long-poll parameters.
type UpdatesRequest struct {
	// Timeout is the server-side hold time in seconds.
	Timeout int

	// Offset is the cursor: the first update id that should be returned.
	// Negative means "no cursor" and is not sent.
	Offset int64

	// AllowedUpdates restricts the update kinds. A nil slice leaves the
	// server default in place; an empty non-nil slice asks for none.
	AllowedUpdates []string
}

// Response is the envelope every remote endpoint answers with.
type Response struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// ResponseParameters carries hints attached to some failures.
type ResponseParameters struct {
	// RetryAfter is the number of seconds to wait before repeating the
	// request when the call was rate limited.
	RetryAfter int `json:"retry_after,omitempty"`
}

// SendMessageRequest is the payload of the sendMessage call.
type SendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}
