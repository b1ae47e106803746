package machine

import (
	"context"

	"github.com/aretw0/checktree/pkg/domain"
)

func (m *Machine) onSelChanging(ctx context.Context, ev domain.InputEvent) bool {
	m.unhighlight(m.lastKeyboardFocus)
	m.hover(ev.Item)
	m.lastKeyboardFocus = ev.Item
	return true
}

// onChar selects the first item when nothing is selected yet.
func (m *Machine) onChar(ctx context.Context, ev domain.InputEvent) bool {
	if m.tree.Contains(m.tree.Selection()) || m.tree.Count() == 0 {
		return true
	}

	first := m.tree.Root()
	if m.tree.HideRoot() {
		children := m.tree.Children(first)
		if len(children) == 0 {
			return true
		}
		first = children[0]
	}
	m.tree.SelectItem(first)
	m.lastKeyboardFocus = first
	return false
}

func (m *Machine) onKeyDown(ctx context.Context, ev domain.InputEvent) bool {
	if ev.Key == domain.KeySpace {
		m.lastKeyboardFocus = m.tree.Selection()
		m.press(m.lastKeyboardFocus)
	}
	return true
}

func (m *Machine) onKeyUp(ctx context.Context, ev domain.InputEvent) bool {
	switch ev.Key {
	case domain.KeySpace:
		m.commit(ctx, m.lastKeyboardFocus)
	case domain.KeyEscape:
		m.unhighlight(m.lastKeyboardFocus)
		m.lastKeyboardFocus = ""
		m.tree.Unselect()
	}
	return true
}

func (m *Machine) onMouseEnter(ctx context.Context, ev domain.InputEvent) bool {
	if ev.LeftDown {
		m.enteredWithDown = true
	}
	return false
}

func (m *Machine) onMouseLeave(ctx context.Context, ev domain.InputEvent) bool {
	m.clearPointer()
	return false
}

// clearPointer drops the hover and pressed highlights.
func (m *Machine) clearPointer() {
	m.unhighlight(m.lastMouseOver)
	m.unhighlight(m.lastPressedDown)
	m.lastMouseOver = ""
	m.lastPressedDown = ""
}

// onLeftDClick turns a double click into one more click, except on the expand
// button where a second toggle would just be noise.
func (m *Machine) onLeftDClick(ctx context.Context, ev domain.InputEvent) bool {
	if _, flags := m.tree.HitTest(ev.Pos); flags.OnButton() {
		return true
	}
	m.onLeftDown(ctx, ev)
	m.onLeftUp(ctx, ev)
	return false
}

func (m *Machine) onLeftDown(ctx context.Context, ev domain.InputEvent) bool {
	id, flags := m.tree.HitTest(ev.Pos)
	if !m.tree.Contains(id) {
		return false
	}

	if m.IsCheckable(id) && flags.OnCheck() {
		m.lastPressedDown = id
		m.press(id)
		return false
	}
	return flags.OnLabel()
}

func (m *Machine) onLeftUp(ctx context.Context, ev domain.InputEvent) bool {
	id, flags := m.tree.HitTest(ev.Pos)
	if !m.tree.Contains(id) {
		m.enteredWithDown = false
		m.clearPointer()
		return false
	}
	checkable := m.IsCheckable(id)

	// A release that ends a drag started outside the tree is a hover, never a toggle.
	if m.enteredWithDown {
		m.enteredWithDown = false
		if checkable && flags.OnCheck() {
			m.hover(id)
			m.lastMouseOver = id
		}
		return false
	}

	switch {
	case flags.OnButton() && m.tree.HasChildren(id):
		if m.tree.IsExpanded(id) {
			m.tree.Collapse(id)
		} else {
			m.tree.Expand(id)
		}
		return false

	case checkable && flags.OnCheck():
		if id == m.lastPressedDown {
			m.commit(ctx, id)
		} else {
			m.unhighlight(m.lastPressedDown)
			m.hover(id)
		}
		m.lastPressedDown = ""
		m.lastMouseOver = id
		return false

	case flags.OnLabel():
		return true

	default:
		m.clearPointer()
		return false
	}
}

func (m *Machine) onMotion(ctx context.Context, ev domain.InputEvent) bool {
	if m.enteredWithDown {
		// ignore everything until the button is released
		return false
	}

	id, flags := m.tree.HitTest(ev.Pos)
	switch {
	case !m.tree.Contains(id):
		if ev.LeftDown {
			m.clearPointer()
		} else {
			m.unhighlight(m.lastMouseOver)
			m.lastMouseOver = ""
		}

	case ev.LeftDown && m.tree.Contains(m.lastPressedDown):
		// Like a native checkbox: leaving the pressed box shows it hovered,
		// coming back shows it pressed again.
		if id == m.lastPressedDown {
			if !m.isPressed(id) {
				m.press(id)
			}
		} else {
			m.hover(m.lastPressedDown)
		}

	default:
		m.unhighlight(m.lastMouseOver)
		if m.IsCheckable(id) && flags.OnCheck() {
			m.hover(id)
			m.lastMouseOver = id
		} else {
			m.lastMouseOver = ""
		}
	}
	return false
}

func (m *Machine) onWheel(ctx context.Context, ev domain.InputEvent) bool {
	return true
}

// onFocusSet swallows the event: rows are highlighted by keyboard actions only.
func (m *Machine) onFocusSet(ctx context.Context, ev domain.InputEvent) bool {
	return false
}

func (m *Machine) onFocusLost(ctx context.Context, ev domain.InputEvent) bool {
	m.unhighlight(m.lastKeyboardFocus)
	m.tree.Unselect()
	return true
}
