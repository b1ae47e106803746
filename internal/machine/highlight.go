package machine

import (
	"context"

	"github.com/aretw0/checktree/pkg/domain"
)

// unhighlight returns an enabled checkbox to its resting look.
func (m *Machine) unhighlight(id domain.NodeID) {
	st, ok := m.state(id)
	if !ok || st.IsDisabled() {
		return
	}
	m.tree.SetItemState(id, st.With(domain.Resting))
}

// hover gives an enabled checkbox the mouse-over look.
func (m *Machine) hover(id domain.NodeID) {
	st, ok := m.state(id)
	if !ok || st.IsDisabled() {
		return
	}
	m.tree.SetItemState(id, st.With(domain.MouseOver))
}

// press gives an enabled checkbox the pressed-down look.
func (m *Machine) press(id domain.NodeID) {
	st, ok := m.state(id)
	if !ok || st.IsDisabled() {
		return
	}
	m.tree.SetItemState(id, st.With(domain.PressedDown))
}

// commit flips an enabled checkbox, leaves it hovered and raises the choice.
func (m *Machine) commit(ctx context.Context, id domain.NodeID) {
	st, ok := m.state(id)
	if !ok || st.IsDisabled() {
		return
	}
	next := st.Toggled().With(domain.MouseOver)
	m.tree.SetItemState(id, next)

	m.logger.Debug("checkbox toggled", "node", id, "checked", next.IsChecked())
	if m.hooks.OnCheckChanged != nil {
		m.hooks.OnCheckChanged(ctx, &domain.ChoiceEvent{
			Timestamp: m.now(),
			Node:      id,
			Checked:   next.IsChecked(),
		})
	}
}

func (m *Machine) isPressed(id domain.NodeID) bool {
	st, ok := m.state(id)
	return ok && st.Overlay == domain.PressedDown
}
