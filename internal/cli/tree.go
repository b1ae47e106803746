package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/presentation/tui"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6366f1")).MarginRight(1)
	groupStyle      = lipgloss.NewStyle().Bold(true)
)

// Label renders one node for a static listing: an icon for checkable nodes and
// the label in its colour.
func Label(n checktree.Node) string {
	style := lipgloss.NewStyle()
	if n.Colour != "" {
		style = style.Foreground(lipgloss.Color(string(n.Colour)))
	}
	if n.HasChildren {
		style = style.Inherit(groupStyle)
	}
	label := style.Render(n.Text)
	if n.Checkable && n.State != nil {
		return tui.Icons[n.State.Index()] + " " + label
	}
	return label
}

// BuildTree converts visible rows, given in display order with depths, into a lipgloss tree.
func BuildTree(title string, rows []checktree.Node) *tree.Tree {
	root := tree.Root(title).EnumeratorStyle(enumeratorStyle)

	// stack[d] is the subtree that receives rows of depth d
	stack := []*tree.Tree{root}
	for i, r := range rows {
		depth := min(r.Depth, len(stack)-1)
		stack = stack[:depth+1]
		parent := stack[depth]

		if i+1 < len(rows) && rows[i+1].Depth > r.Depth {
			sub := tree.Root(Label(r)).EnumeratorStyle(enumeratorStyle)
			parent.Child(sub)
			stack = append(stack, sub)
			continue
		}
		parent.Child(Label(r))
	}
	return root
}

// PrintTree writes the visible rows of b as a tree.
func PrintTree(w io.Writer, b *checktree.Browser, title string) {
	fmt.Fprintln(w, BuildTree(title, b.Rows()))
}
