package machine

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/checktree/pkg/ports"
)

// Cursors is a read-only view of the interaction cursors.
type Cursors struct {
	KeyboardFocus         domain.NodeID
	MouseOver             domain.NodeID
	PressedDown           domain.NodeID
	EnteredWithButtonDown bool
}

// Machine is the checkable tree state machine.
type Machine struct {
	tree     ports.Tree
	hooks    domain.Hooks
	dispatch DispatchTable
	logger   *slog.Logger
	now      func() time.Time

	lastKeyboardFocus domain.NodeID
	lastMouseOver     domain.NodeID
	lastPressedDown   domain.NodeID
	enteredWithDown   bool

	// saved holds the label colour of nodes disabled through EnableCheckBox.
	saved map[domain.NodeID]domain.Color
}

// Option configures a Machine.
type Option func(*Machine)

// WithHooks registers notification callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithDispatch replaces the default event table.
func WithDispatch(table DispatchTable) Option {
	return func(m *Machine) {
		m.dispatch = table
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the timestamp source of emitted events.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// New creates a Machine operating on tree.
func New(tree ports.Tree, opts ...Option) *Machine {
	m := &Machine{
		tree:     tree,
		dispatch: DefaultDispatch(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		saved:    make(map[domain.NodeID]domain.Color),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tree returns the collaborator the machine operates on.
func (m *Machine) Tree() ports.Tree { return m.tree }

// Cursors returns the current interaction cursors.
func (m *Machine) Cursors() Cursors {
	return Cursors{
		KeyboardFocus:         m.lastKeyboardFocus,
		MouseOver:             m.lastMouseOver,
		PressedDown:           m.lastPressedDown,
		EnteredWithButtonDown: m.enteredWithDown,
	}
}

// SavedColour returns the colour a disabled node gets back when re-enabled.
func (m *Machine) SavedColour(id domain.NodeID) (domain.Color, bool) {
	c, ok := m.saved[id]
	return c, ok
}

func (m *Machine) state(id domain.NodeID) (domain.CheckState, bool) {
	if !m.tree.Contains(id) {
		return domain.CheckState{}, false
	}
	return m.tree.ItemState(id)
}

// MakeCheckable gives a node a resting checkbox. Nodes that already have one are left alone.
func (m *Machine) MakeCheckable(id domain.NodeID, checked bool) {
	if !m.tree.Contains(id) {
		return
	}
	if _, ok := m.tree.ItemState(id); ok {
		return
	}
	m.tree.SetItemState(id, domain.NewCheckState(checked))
}

// IsCheckable reports whether the node carries a checkbox.
func (m *Machine) IsCheckable(id domain.NodeID) bool {
	_, ok := m.state(id)
	return ok
}

// IsChecked reports the committed value of a checkable node.
func (m *Machine) IsChecked(id domain.NodeID) bool {
	st, ok := m.state(id)
	return ok && st.IsChecked()
}

// Check sets the committed value without raising a notification.
// A disabled checkbox stays disabled; any highlight is dropped.
func (m *Machine) Check(id domain.NodeID, checked bool) {
	old, ok := m.state(id)
	if !ok {
		return
	}
	next := domain.NewCheckState(checked)
	if old.IsDisabled() {
		next = next.With(domain.Disabled)
	}
	if next != old {
		m.tree.SetItemState(id, next)
	}
}

// Uncheck is Check(id, false).
func (m *Machine) Uncheck(id domain.NodeID) {
	m.Check(id, false)
}

// EnableCheckBox enables or disables a checkbox. Disabling greys the label out and
// remembers its colour; enabling restores it. Disabling twice is a no-op so the
// remembered colour survives. It returns false only when the node is not checkable.
func (m *Machine) EnableCheckBox(id domain.NodeID, enable bool) bool {
	st, ok := m.state(id)
	if !ok {
		return false
	}

	if enable {
		if st.IsDisabled() {
			m.tree.SetItemState(id, st.With(domain.Resting))
		}
		if c, ok := m.saved[id]; ok {
			m.tree.SetItemTextColour(id, c)
			delete(m.saved, id)
		}
		return true
	}

	if st.IsDisabled() {
		return true
	}

	m.tree.SetItemState(id, st.With(domain.Disabled))
	m.saved[id] = m.tree.ItemTextColour(id)
	m.tree.SetItemTextColour(id, domain.DisabledColor)
	return true
}

// DisableCheckBox is EnableCheckBox(id, false).
func (m *Machine) DisableCheckBox(id domain.NodeID) bool {
	return m.EnableCheckBox(id, false)
}

// SetItemTextColour paints a label. While the node is disabled the new colour is
// also the one restored on enable.
func (m *Machine) SetItemTextColour(id domain.NodeID, c domain.Color) {
	if !m.tree.Contains(id) {
		return
	}
	if _, ok := m.saved[id]; ok {
		m.saved[id] = c
	}
	m.tree.SetItemTextColour(id, c)
}

// Forget drops saved colours of nodes the tree no longer holds.
func (m *Machine) Forget() {
	for id := range m.saved {
		if !m.tree.Contains(id) {
			delete(m.saved, id)
		}
	}
}

// Sort orders the children of id: nodes with children first, then by label
// ignoring case. Children that compare equal keep their order.
func (m *Machine) Sort(id domain.NodeID, recursive bool) {
	if !m.tree.Contains(id) {
		return
	}
	if recursive {
		for _, c := range m.tree.Children(id) {
			m.Sort(c, true)
		}
	}
	if m.tree.HasChildren(id) {
		m.tree.SortChildren(id, m.compareItems)
	}
}

func (m *Machine) compareItems(a, b domain.NodeID) int {
	leafA := !m.tree.HasChildren(a)
	leafB := !m.tree.HasChildren(b)
	switch {
	case !leafA && leafB:
		return -1
	case leafA && !leafB:
		return 1
	}
	return cmp.Compare(strings.ToLower(m.tree.ItemText(a)), strings.ToLower(m.tree.ItemText(b)))
}

// SetFocusFromKeyboard re-selects the last keyboard-focused node and raises
// the focus notification.
func (m *Machine) SetFocusFromKeyboard(ctx context.Context) {
	if m.tree.Contains(m.lastKeyboardFocus) {
		m.tree.SelectItem(m.lastKeyboardFocus)
	}
	if m.hooks.OnFocusFromKeyboard != nil {
		m.hooks.OnFocusFromKeyboard(ctx, &domain.FocusEvent{Timestamp: m.now()})
	}
}
