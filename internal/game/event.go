package game

import (
	"errors"
	"fmt"
)

// EventType names an input event forwarded by a renderer.
type EventType string

const (
	EventChar      EventType = "char"
	EventBackspace EventType = "backspace"
	EventSubmit    EventType = "submit"
	EventRestart   EventType = "restart"
)

// ErrUnknownEvent is returned by Apply for an unrecognized event type.
var ErrUnknownEvent = errors.New("game: unknown event")

// Event is a single user input. Index and Char are only meaningful for
// char and backspace events.
type Event struct {
	Type  EventType `json:"type"`
	Index int       `json:"index,omitempty"`
	Char  string    `json:"char,omitempty"`
}

// Apply dispatches ev to the matching engine operation and reports whether
// the state changed. Malformed char/backspace/submit events are ignored
// like their direct counterparts.
func (e *Engine) Apply(ev Event) (bool, error) {
	switch ev.Type {
	case EventChar:
		return e.TypeChar(ev.Index, ev.Char), nil
	case EventBackspace:
		return e.Backspace(ev.Index), nil
	case EventSubmit:
		return e.Submit().Accepted, nil
	case EventRestart:
		e.Restart()
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}
