// Package chat defines the room chat wire protocol and its validation rules.
package chat

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	TypeMessage = "chat message"
	TypeError   = "chat error"
)

const (
	maxNameLen = 24
	maxTextLen = 500
)

var (
	ErrInvalidType = errors.New("invalid message type. Expected 'chat message'")
	ErrInvalidName = errors.New("name must be between 1 and 24 characters")
	ErrInvalidText = errors.New("message text must be between 1 and 500 characters")
)

type Inbound struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Text string `json:"text"`
}

type Event struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	TimestampMs int64  `json:"timestamp_ms"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{
		Type:    TypeError,
		Message: message,
	}
}

// Validate normalizes the message in place and reports the first rule it
// breaks. Name and text are trimmed before the length checks.
func (in *Inbound) Validate() error {
	if in.Type != TypeMessage {
		return ErrInvalidType
	}

	// bounds are in characters, not bytes
	in.Name = strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(in.Name); n < 1 || n > maxNameLen {
		return ErrInvalidName
	}

	in.Text = strings.TrimSpace(in.Text)
	if n := utf8.RuneCountInString(in.Text); n < 1 || n > maxTextLen {
		return ErrInvalidText
	}

	return nil
}
