package domain

import "fmt"

// Base is the committed value of a checkbox.
type Base uint8

const (
	Unchecked Base = iota
	Checked
)

// Overlay is the transient visual sub-state layered on top of a Base.
type Overlay uint8

const (
	Resting Overlay = iota
	MouseOver
	PressedDown
	Disabled
)

var overlayNames = [...]string{"", "_mouse_over", "_pressed_down", "_disabled"}

// CheckState is the state of a checkable node.
// The zero value is an unchecked, resting checkbox.
type CheckState struct {
	Base    Base
	Overlay Overlay
}

// NewCheckState returns the resting state for the given value.
func NewCheckState(checked bool) CheckState {
	if checked {
		return CheckState{Base: Checked}
	}
	return CheckState{Base: Unchecked}
}

// IsChecked reports whether the committed value is Checked.
func (s CheckState) IsChecked() bool { return s.Base == Checked }

// IsDisabled reports whether the checkbox is greyed out.
func (s CheckState) IsDisabled() bool { return s.Overlay == Disabled }

// With returns the same base under another overlay.
func (s CheckState) With(o Overlay) CheckState {
	return CheckState{Base: s.Base, Overlay: o}
}

// Toggled returns the opposite base under the same overlay.
func (s CheckState) Toggled() CheckState {
	if s.Base == Checked {
		return CheckState{Base: Unchecked, Overlay: s.Overlay}
	}
	return CheckState{Base: Checked, Overlay: s.Overlay}
}

// Index returns the position of the state in the dense ordering
// Unchecked, UncheckedMouseOver, UncheckedPressedDown, UncheckedDisabled,
// Checked, CheckedMouseOver, CheckedPressedDown, CheckedDisabled.
// Renderers use it to pick an icon.
func (s CheckState) Index() int {
	return int(s.Base)*4 + int(s.Overlay)
}

// StateFromIndex is the inverse of CheckState.Index.
func StateFromIndex(i int) (CheckState, bool) {
	if i < 0 || i > 7 {
		return CheckState{}, false
	}
	return CheckState{Base: Base(i / 4), Overlay: Overlay(i % 4)}, true
}

func (s CheckState) String() string {
	base := "unchecked"
	if s.Base == Checked {
		base = "checked"
	}
	if int(s.Overlay) >= len(overlayNames) {
		return fmt.Sprintf("%s_overlay(%d)", base, s.Overlay)
	}
	return base + overlayNames[s.Overlay]
}

// MarshalText encodes the state by name (e.g. "checked_mouse_over").
func (s CheckState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (s *CheckState) UnmarshalText(text []byte) error {
	for i := 0; i < 8; i++ {
		st, _ := StateFromIndex(i)
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown check state %q", text)
}
