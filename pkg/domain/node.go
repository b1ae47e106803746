package domain

// NodeID is an opaque handle to a node of an externally owned tree.
// The empty string means "no node".
type NodeID string

// IsZero reports whether the handle designates no node.
func (id NodeID) IsZero() bool { return id == "" }

// Point is a position in the tree's own coordinate space
// (columns and rows for the terminal front-end).
type Point struct {
	X int `json:"x" yaml:"x" mapstructure:"x"`
	Y int `json:"y" yaml:"y" mapstructure:"y"`
}

// HitFlags classifies where a point falls relative to a tree row.
type HitFlags uint16

const (
	HitNowhere HitFlags = 1 << iota
	HitOnIndent
	HitOnButton
	HitOnStateIcon
	HitOnLabel
	HitOnRight
	HitAbove
	HitBelow
)

// OnCheck reports whether the point is on the checkbox icon.
func (f HitFlags) OnCheck() bool { return f&HitOnStateIcon != 0 }

// OnLabel reports whether the point is on the item text.
func (f HitFlags) OnLabel() bool { return f&HitOnLabel != 0 }

// OnButton reports whether the point is on the expand/collapse button.
func (f HitFlags) OnButton() bool { return f&HitOnButton != 0 }

// Color is a "#rrggbb" text colour. The empty value is the theme default.
type Color string

const (
	// DisabledColor paints the label of a node whose checkbox is disabled.
	DisabledColor Color = "#a1a192"
	// UnsupportedColor marks packs the browser refuses to enable.
	UnsupportedColor Color = "#cc0000"
	// ActivatedColor marks packs currently loaded by a running title.
	ActivatedColor Color = "#009900"
)
