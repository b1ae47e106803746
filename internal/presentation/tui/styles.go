package tui

import (
	"strings"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

// Icons is indexed by domain.CheckState.Index.
var Icons = [8]string{
	"[ ]", "[·]", "[▪]", "[-]",
	"[x]", "[X]", "[▪]", "[x]",
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f472b6"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	hoverStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#818cf8")).Bold(true)
	pressedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb7185")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(string(domain.DisabledColor)))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(string(domain.UnsupportedColor)))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6366f1")).Padding(0, 1)
)

func iconStyle(st domain.CheckState) lipgloss.Style {
	switch st.Overlay {
	case domain.MouseOver:
		return hoverStyle
	case domain.PressedDown:
		return pressedStyle
	case domain.Disabled:
		return disabledStyle
	}
	return lipgloss.NewStyle()
}

func pad(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// RenderRow draws a node so its columns line up with the layout used for hit testing.
func RenderRow(n checktree.Node, l memory.Layout) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", n.Depth*l.Indent))

	button := ""
	if n.HasChildren {
		button = "▸"
		if n.Expanded {
			button = "▾"
		}
	}
	b.WriteString(pad(button, l.Button))

	if n.Checkable && n.State != nil {
		b.WriteString(pad(iconStyle(*n.State).Render(Icons[n.State.Index()]), l.Icon))
	}

	label := lipgloss.NewStyle()
	if n.Colour != "" {
		label = label.Foreground(lipgloss.Color(string(n.Colour)))
	}
	if n.Selected {
		label = label.Inherit(selectedStyle)
	}
	b.WriteString(label.Render(n.Text))
	return b.String()
}
