package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/checktree/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a glamour renderer wrapping at width.
// Style follows the terminal background.
func NewRenderer(width int) Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return PlainRenderer
	}
	return r.Render
}

// PlainRenderer returns the markdown unchanged.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}

// Describe formats a pack as markdown for the detail panel.
func Describe(p domain.Pack) string {
	var b strings.Builder
	name := p.Name
	if name == "" {
		name = p.Path[strings.LastIndex(p.Path, "/")+1:]
	}
	fmt.Fprintf(&b, "## %s\n\n", name)
	fmt.Fprintf(&b, "`%s` · version %d", p.Path, p.Version)
	if !p.Supported() {
		b.WriteString(" · **unsupported**")
	}
	if p.Activated {
		b.WriteString(" · *active*")
	}
	b.WriteString("\n\n")
	if ids := p.HexTitleIDs(); len(ids) > 0 {
		fmt.Fprintf(&b, "Titles: %s\n\n", strings.Join(ids, ", "))
	}
	for _, category := range p.Categories() {
		label := category
		if label == "" {
			label = "Active preset"
		}
		active := p.ActivePreset(category)
		var names []string
		for _, pr := range p.PresetsIn(category) {
			if pr.Name == active {
				names = append(names, "**"+pr.Name+"**")
				continue
			}
			names = append(names, pr.Name)
		}
		fmt.Fprintf(&b, "- %s: %s\n", label, strings.Join(names, " | "))
	}
	if len(p.Presets) > 0 {
		b.WriteString("\n")
	}
	if p.Description != "" {
		b.WriteString(p.Description)
		b.WriteString("\n")
	}
	return b.String()
}
