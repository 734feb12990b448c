// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Update kinds the remote API may deliver. The list is not exhaustive; any
// unknown top-level key of an update is carried through as its Kind.
const (
	KindMessage            = "message"
	KindEditedMessage      = "edited_message"
	KindChannelPost        = "channel_post"
	KindEditedChannelPost  = "edited_channel_post"
	KindCallbackQuery      = "callback_query"
	KindInlineQuery        = "inline_query"
	KindChosenInlineResult = "chosen_inline_result"
	KindMyChatMember       = "my_chat_member"
	KindChatMember         = "chat_member"
)

var errMissingUpdateID = errors.New("update has no update_id")

// Update is one server-delivered event. ID is strictly increasing across the
// stream; Kind names the payload field and Payload keeps its raw JSON so the
// runtime stays agnostic of the payload schema.
type Update struct {
	ID      int64           `json:"update_id"`
	Kind    string          `json:"-"`
	Payload json.RawMessage `json:"-"`
}

// UnmarshalJSON splits the flat wire object into the id and the single
// payload field that accompanies it.
func (u *Update) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	rawID, ok := fields["update_id"]
	if !ok {
		return errMissingUpdateID
	}
	if err := json.Unmarshal(rawID, &u.ID); err != nil {
		return fmt.Errorf("decode update_id: %w", err)
	}
	delete(fields, "update_id")

	u.Kind, u.Payload = "", nil
	for k, v := range fields {
		u.Kind, u.Payload = k, v
		break
	}

	return nil
}

// MarshalJSON restores the flat wire object.
func (u Update) MarshalJSON() ([]byte, error) {
	fields := map[string]any{"update_id": u.ID}
	if u.Kind != "" {
		fields[u.Kind] = u.Payload
	}
	return json.Marshal(fields)
}

// Decode unmarshals the payload into v.
func (u Update) Decode(v any) error {
	if len(u.Payload) == 0 {
		return fmt.Errorf("update %d has no payload", u.ID)
	}
	return json.Unmarshal(u.Payload, v)
}

// Message is the subset of a chat message the runtime helpers read.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from,omitempty"`
	Text      string `json:"text,omitempty"`
	Date      int64  `json:"date"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// User is the sender of a message or the bot itself.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}
