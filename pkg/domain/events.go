package domain

import (
	"context"
	"time"
)

// EventKind names an input event routed to the machine.
type EventKind string

const (
	EventKeyDown     EventKind = "key_down"
	EventKeyUp       EventKind = "key_up"
	EventChar        EventKind = "char"
	EventMouseEnter  EventKind = "mouse_enter"
	EventMouseLeave  EventKind = "mouse_leave"
	EventLeftDown    EventKind = "left_down"
	EventLeftUp      EventKind = "left_up"
	EventLeftDClick  EventKind = "left_dclick"
	EventMotion      EventKind = "motion"
	EventWheel       EventKind = "wheel"
	EventFocusSet    EventKind = "focus_set"
	EventFocusLost   EventKind = "focus_lost"
	EventSelChanging EventKind = "sel_changing"
)

// Key identifies the keys the machine reacts to. Other keys travel as KeyOther.
type Key string

const (
	KeyOther  Key = ""
	KeySpace  Key = "space"
	KeyEscape Key = "escape"
)

// InputEvent is a single keyboard, pointer or focus event.
type InputEvent struct {
	Kind EventKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	Key  Key       `json:"key,omitempty" yaml:"key,omitempty" mapstructure:"key"`
	Pos  Point     `json:"pos" yaml:"pos" mapstructure:"pos"`
	// LeftDown reports whether the primary button is held while the event happens.
	LeftDown bool `json:"left_down,omitempty" yaml:"left_down,omitempty" mapstructure:"left_down"`
	// Item carries the newly selected node for EventSelChanging.
	Item NodeID `json:"item,omitempty" yaml:"item,omitempty" mapstructure:"item"`
}

// ChoiceEvent is raised when a toggle is committed by the user.
type ChoiceEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Node      NodeID    `json:"node"`
	// Checked is the value after the toggle.
	Checked bool `json:"checked"`
}

// FocusEvent is raised when focus is applied from the keyboard.
type FocusEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// Hooks defines callbacks for consumers of the machine.
type Hooks struct {
	OnCheckChanged      func(context.Context, *ChoiceEvent)
	OnFocusFromKeyboard func(context.Context, *FocusEvent)
	// OnDispatch observes every event before it is handled.
	OnDispatch func(context.Context, *InputEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnCheckChanged:      chain(h.OnCheckChanged, other.OnCheckChanged),
		OnFocusFromKeyboard: chain(h.OnFocusFromKeyboard, other.OnFocusFromKeyboard),
		OnDispatch:          chain(h.OnDispatch, other.OnDispatch),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, v T) {
		a(ctx, v)
		b(ctx, v)
	}
}
