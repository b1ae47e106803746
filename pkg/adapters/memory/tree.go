package memory

import (
	"fmt"
	"slices"

	"github.com/aretw0/checktree/pkg/domain"
	"github.com/mattn/go-runewidth"
)

// Layout describes the horizontal geometry of a row, in cells.
//
//	<indent*depth><button><icon><label>
//
// The icon column is only present on checkable rows.
type Layout struct {
	Indent int
	Button int
	Icon   int
}

// DefaultLayout renders as "▸ [x] label" with two cells per depth level.
var DefaultLayout = Layout{Indent: 2, Button: 2, Icon: 4}

// Part selects a region of a row for PointOf.
type Part int

const (
	PartLabel Part = iota
	PartIcon
	PartButton
)

// Row is a visible line of the tree.
type Row struct {
	ID          domain.NodeID
	Depth       int
	Text        string
	Colour      domain.Color
	State       domain.CheckState
	Checkable   bool
	HasChildren bool
	Expanded    bool
	Selected    bool
}

type node struct {
	parent    domain.NodeID
	children  []domain.NodeID
	text      string
	colour    domain.Color
	state     domain.CheckState
	checkable bool
	expanded  bool
}

// Tree implements ports.Tree in memory.
// It is not safe for concurrent use; callers serialise access.
type Tree struct {
	nodes     map[domain.NodeID]*node
	root      domain.NodeID
	hideRoot  bool
	selection domain.NodeID
	seq       int
	layout    Layout
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithHiddenRoot hides the root row; its children become the top level.
func WithHiddenRoot() TreeOption {
	return func(t *Tree) {
		t.hideRoot = true
	}
}

// WithLayout overrides DefaultLayout.
func WithLayout(l Layout) TreeOption {
	return func(t *Tree) {
		t.layout = l
	}
}

// NewTree creates an empty tree.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		nodes:  make(map[domain.NodeID]*node),
		layout: DefaultLayout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Layout returns the row geometry used for hit testing.
func (t *Tree) Layout() Layout { return t.layout }

func (t *Tree) newID() domain.NodeID {
	t.seq++
	return domain.NodeID(fmt.Sprintf("n%d", t.seq))
}

// AddRoot creates the root node. It replaces any previous content.
func (t *Tree) AddRoot(text string) domain.NodeID {
	t.nodes = make(map[domain.NodeID]*node)
	t.selection = ""
	id := t.newID()
	t.nodes[id] = &node{text: text, expanded: true}
	t.root = id
	return id
}

// AppendItem adds a child at the end of parent's children.
// It returns the zero NodeID if parent does not exist.
func (t *Tree) AppendItem(parent domain.NodeID, text string) domain.NodeID {
	p, ok := t.nodes[parent]
	if !ok {
		return ""
	}
	id := t.newID()
	t.nodes[id] = &node{parent: parent, text: text}
	p.children = append(p.children, id)
	return id
}

// Delete removes a node and its descendants.
func (t *Tree) Delete(id domain.NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range slices.Clone(n.children) {
		t.Delete(c)
	}
	if p, ok := t.nodes[n.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(c domain.NodeID) bool { return c == id })
	}
	if t.selection == id {
		t.selection = ""
	}
	if t.root == id {
		t.root = ""
	}
	delete(t.nodes, id)
}

// FindChild returns the first direct child of parent labelled text.
func (t *Tree) FindChild(parent domain.NodeID, text string) domain.NodeID {
	p, ok := t.nodes[parent]
	if !ok {
		return ""
	}
	for _, c := range p.children {
		if t.nodes[c].text == text {
			return c
		}
	}
	return ""
}

// Parent returns the parent of id, or the zero NodeID for the root.
func (t *Tree) Parent(id domain.NodeID) domain.NodeID {
	if n, ok := t.nodes[id]; ok {
		return n.parent
	}
	return ""
}

// SetItemText changes a label.
func (t *Tree) SetItemText(id domain.NodeID, text string) {
	if n, ok := t.nodes[id]; ok {
		n.text = text
	}
}

// ClearItemState makes a node non-checkable again.
func (t *Tree) ClearItemState(id domain.NodeID) {
	if n, ok := t.nodes[id]; ok {
		n.checkable = false
		n.state = domain.CheckState{}
	}
}

// ExpandAll expands every node that has children.
func (t *Tree) ExpandAll() {
	for _, n := range t.nodes {
		if len(n.children) > 0 {
			n.expanded = true
		}
	}
}

func (t *Tree) Contains(id domain.NodeID) bool {
	if id.IsZero() {
		return false
	}
	_, ok := t.nodes[id]
	return ok
}

func (t *Tree) ItemState(id domain.NodeID) (domain.CheckState, bool) {
	n, ok := t.nodes[id]
	if !ok || !n.checkable {
		return domain.CheckState{}, false
	}
	return n.state, true
}

func (t *Tree) SetItemState(id domain.NodeID, state domain.CheckState) {
	if n, ok := t.nodes[id]; ok {
		n.state = state
		n.checkable = true
	}
}

func (t *Tree) ItemText(id domain.NodeID) string {
	if n, ok := t.nodes[id]; ok {
		return n.text
	}
	return ""
}

func (t *Tree) ItemTextColour(id domain.NodeID) domain.Color {
	if n, ok := t.nodes[id]; ok {
		return n.colour
	}
	return ""
}

func (t *Tree) SetItemTextColour(id domain.NodeID, c domain.Color) {
	if n, ok := t.nodes[id]; ok {
		n.colour = c
	}
}

func (t *Tree) Selection() domain.NodeID { return t.selection }

func (t *Tree) SelectItem(id domain.NodeID) {
	if t.Contains(id) {
		t.selection = id
	}
}

func (t *Tree) Unselect() { t.selection = "" }

func (t *Tree) Root() domain.NodeID { return t.root }

func (t *Tree) HideRoot() bool { return t.hideRoot }

func (t *Tree) Count() int { return len(t.nodes) }

func (t *Tree) Children(id domain.NodeID) []domain.NodeID {
	if n, ok := t.nodes[id]; ok {
		return slices.Clone(n.children)
	}
	return nil
}

func (t *Tree) HasChildren(id domain.NodeID) bool {
	n, ok := t.nodes[id]
	return ok && len(n.children) > 0
}

func (t *Tree) IsExpanded(id domain.NodeID) bool {
	n, ok := t.nodes[id]
	return ok && n.expanded
}

func (t *Tree) Expand(id domain.NodeID) {
	if n, ok := t.nodes[id]; ok && len(n.children) > 0 {
		n.expanded = true
	}
}

func (t *Tree) Collapse(id domain.NodeID) {
	if n, ok := t.nodes[id]; ok {
		n.expanded = false
		if t.selection != id && t.isDescendant(t.selection, id) {
			t.selection = id
		}
	}
}

func (t *Tree) SortChildren(id domain.NodeID, cmp func(a, b domain.NodeID) int) {
	if n, ok := t.nodes[id]; ok {
		slices.SortStableFunc(n.children, cmp)
	}
}

func (t *Tree) isDescendant(id, ancestor domain.NodeID) bool {
	for n, ok := t.nodes[id]; ok; n, ok = t.nodes[n.parent] {
		if n.parent == ancestor {
			return true
		}
	}
	return false
}

// Rows returns the visible rows in display order.
func (t *Tree) Rows() []Row {
	var rows []Row
	if t.root.IsZero() {
		return rows
	}
	var visit func(id domain.NodeID, depth int)
	visit = func(id domain.NodeID, depth int) {
		n := t.nodes[id]
		rows = append(rows, Row{
			ID:          id,
			Depth:       depth,
			Text:        n.text,
			Colour:      n.colour,
			State:       n.state,
			Checkable:   n.checkable,
			HasChildren: len(n.children) > 0,
			Expanded:    n.expanded,
			Selected:    id == t.selection,
		})
		if !n.expanded {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	if t.hideRoot {
		for _, c := range t.nodes[t.root].children {
			visit(c, 0)
		}
	} else {
		visit(t.root, 0)
	}
	return rows
}

func (t *Tree) columns(r Row) (button, icon, label int) {
	button = r.Depth * t.layout.Indent
	icon = button + t.layout.Button
	label = icon
	if r.Checkable {
		label += t.layout.Icon
	}
	return button, icon, label
}

func (t *Tree) HitTest(p domain.Point) (domain.NodeID, domain.HitFlags) {
	if p.Y < 0 {
		return "", domain.HitAbove
	}
	rows := t.Rows()
	if p.Y >= len(rows) {
		return "", domain.HitBelow
	}
	if p.X < 0 {
		return "", domain.HitNowhere
	}

	r := rows[p.Y]
	button, icon, label := t.columns(r)
	switch {
	case p.X < button:
		return r.ID, domain.HitOnIndent
	case p.X < icon:
		if r.HasChildren {
			return r.ID, domain.HitOnButton
		}
		return r.ID, domain.HitOnIndent
	case p.X < label:
		return r.ID, domain.HitOnStateIcon
	case p.X < label+runewidth.StringWidth(r.Text):
		return r.ID, domain.HitOnLabel
	default:
		return r.ID, domain.HitOnRight
	}
}

// PointOf returns a point inside the given part of a visible row.
func (t *Tree) PointOf(id domain.NodeID, part Part) (domain.Point, bool) {
	for y, r := range t.Rows() {
		if r.ID != id {
			continue
		}
		button, icon, label := t.columns(r)
		switch part {
		case PartButton:
			if !r.HasChildren {
				return domain.Point{}, false
			}
			return domain.Point{X: button, Y: y}, true
		case PartIcon:
			if !r.Checkable {
				return domain.Point{}, false
			}
			return domain.Point{X: icon + 1, Y: y}, true
		default:
			return domain.Point{X: label, Y: y}, true
		}
	}
	return domain.Point{}, false
}
