package machine

import (
	"context"
	"fmt"

	"github.com/aretw0/checktree/pkg/domain"
)

// Handler reacts to one input event. It returns true when the event should also
// reach the tree's default handling (selection, scrolling, label clicks).
type Handler func(m *Machine, ctx context.Context, ev domain.InputEvent) bool

// DispatchTable maps event kinds to handlers.
type DispatchTable map[domain.EventKind]Handler

// DefaultDispatch returns the standard handler for every event kind.
func DefaultDispatch() DispatchTable {
	return DispatchTable{
		domain.EventSelChanging: (*Machine).onSelChanging,
		domain.EventChar:        (*Machine).onChar,
		domain.EventKeyDown:     (*Machine).onKeyDown,
		domain.EventKeyUp:       (*Machine).onKeyUp,
		domain.EventMouseEnter:  (*Machine).onMouseEnter,
		domain.EventMouseLeave:  (*Machine).onMouseLeave,
		domain.EventLeftDClick:  (*Machine).onLeftDClick,
		domain.EventLeftDown:    (*Machine).onLeftDown,
		domain.EventLeftUp:      (*Machine).onLeftUp,
		domain.EventMotion:      (*Machine).onMotion,
		domain.EventWheel:       (*Machine).onWheel,
		domain.EventFocusSet:    (*Machine).onFocusSet,
		domain.EventFocusLost:   (*Machine).onFocusLost,
	}
}

// Clone returns a copy that can be modified without touching t.
func (t DispatchTable) Clone() DispatchTable {
	c := make(DispatchTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Dispatch routes an event to its handler. skip reports whether the host should
// run its default handling as well. Kinds missing from the table return
// domain.ErrUnknownEvent and are skipped.
func (m *Machine) Dispatch(ctx context.Context, ev domain.InputEvent) (skip bool, err error) {
	if m.hooks.OnDispatch != nil {
		m.hooks.OnDispatch(ctx, &ev)
	}
	h, ok := m.dispatch[ev.Kind]
	if !ok {
		return true, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Kind)
	}
	return h(m, ctx, ev), nil
}
