package ports

import "github.com/aretw0/checktree/pkg/domain"

// Tree is the hierarchical tree collaborator of the state machine.
// The machine reads and writes per-node state through it but never creates,
// moves or destroys nodes except through SortChildren.
type Tree interface {
	// Contains reports whether id designates a live node.
	Contains(id domain.NodeID) bool

	// ItemState returns the raw check state slot of a node.
	// ok is false when the node carries no check state.
	ItemState(id domain.NodeID) (state domain.CheckState, ok bool)
	SetItemState(id domain.NodeID, state domain.CheckState)

	// HitTest classifies a point. It returns the zero NodeID when no row is hit.
	HitTest(p domain.Point) (domain.NodeID, domain.HitFlags)

	ItemText(id domain.NodeID) string
	ItemTextColour(id domain.NodeID) domain.Color
	SetItemTextColour(id domain.NodeID, c domain.Color)

	Selection() domain.NodeID
	SelectItem(id domain.NodeID)
	Unselect()

	Root() domain.NodeID
	HideRoot() bool
	Count() int
	Children(id domain.NodeID) []domain.NodeID
	HasChildren(id domain.NodeID) bool
	IsExpanded(id domain.NodeID) bool
	Expand(id domain.NodeID)
	Collapse(id domain.NodeID)

	// SortChildren reorders the direct children of id using cmp.
	// Implementations must keep the relative order of children cmp considers equal.
	SortChildren(id domain.NodeID, cmp func(a, b domain.NodeID) int)
}
