package packs

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/aretw0/checktree/internal/logging"
	"github.com/aretw0/checktree/internal/machine"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/checktree/pkg/ports"
)

const (
	// LegacySuffix marks packs that load but may misbehave on Vulkan.
	LegacySuffix = " (may not be compatible with Vulkan)"
	// UnsupportedSuffix marks packs whose format cannot be enabled.
	UnsupportedSuffix = " (Unsupported version)"

	// maxDuplicates bounds the " #N" suffix search for repeated names.
	maxDuplicates = 999
)

// Tree is the part of the tree the builder needs beyond ports.Tree: creating nodes.
type Tree interface {
	ports.Tree
	AddRoot(text string) domain.NodeID
	AppendItem(parent domain.NodeID, text string) domain.NodeID
	FindChild(parent domain.NodeID, text string) domain.NodeID
	SetItemText(id domain.NodeID, text string)
	ExpandAll()
}

// Builder lays packs out as a checkable tree.
type Builder struct {
	installed []uint64
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithInstalledTitles hides packs that target none of the given titles.
// An empty list hides nothing.
func WithInstalledTitles(ids []uint64) Option {
	return func(b *Builder) {
		b.installed = slices.Clone(ids)
	}
}

// WithLogger sets the builder's logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build clears tree and fills it with the catalog's packs that pass filter.
// m must wrap tree. filter matches the pack path or any hex title id, ignoring case.
// It returns the (hidden) root.
func (b *Builder) Build(tree Tree, m *machine.Machine, c *Catalog, filter string) domain.NodeID {
	c.resetNodes()
	root := tree.AddRoot("Root")
	m.Forget()

	filter = strings.ToLower(strings.TrimSpace(filter))
	for i, p := range c.packs {
		if !b.isInstalled(p) || !Matches(p, filter) {
			continue
		}

		node := b.place(tree, root, p.Path)
		if node.IsZero() || node == root {
			b.logger.Warn("pack not placed", "path", p.Path)
			continue
		}
		c.place(node, i)

		canEnable := true
		switch {
		case p.Version == domain.PackVersionLegacy:
			tree.SetItemText(node, tree.ItemText(node)+LegacySuffix)
		case !p.Supported():
			tree.SetItemText(node, tree.ItemText(node)+UnsupportedSuffix)
			m.SetItemTextColour(node, domain.UnsupportedColor)
			canEnable = false
		case p.Activated:
			m.SetItemTextColour(node, domain.ActivatedColor)
		}

		m.MakeCheckable(node, p.Enabled)
		if !canEnable {
			m.DisableCheckBox(node)
		}
	}

	m.Sort(root, true)
	if filter != "" {
		tree.ExpandAll()
	}
	b.logger.Debug("tree built", "packs", len(c.nodes), "filter", filter)
	return root
}

// place walks the path's groups, creating missing ones, and appends the leaf.
// A leaf name already used under the same parent gets " #2", " #3", and so on.
func (b *Builder) place(tree Tree, root domain.NodeID, path string) domain.NodeID {
	tokens := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(tokens) == 0 {
		return ""
	}

	node := root
	for _, token := range tokens[:len(tokens)-1] {
		next := tree.FindChild(node, token)
		if next.IsZero() {
			next = tree.AppendItem(node, token)
		}
		node = next
	}

	leaf := tokens[len(tokens)-1]
	for s := 1; s <= maxDuplicates; s++ {
		name := leaf
		if s > 1 {
			name = fmt.Sprintf("%s #%d", leaf, s)
		}
		if tree.FindChild(node, name).IsZero() {
			return tree.AppendItem(node, name)
		}
	}
	return ""
}

func (b *Builder) isInstalled(p domain.Pack) bool {
	if len(b.installed) == 0 {
		return true
	}
	for _, id := range p.TitleIDs {
		if slices.Contains(b.installed, id) {
			return true
		}
	}
	return false
}

// Matches reports whether a lowercase filter matches the pack path or one of its hex title ids.
// The empty filter matches everything.
func Matches(p domain.Pack, filter string) bool {
	if filter == "" || strings.Contains(strings.ToLower(p.Path), filter) {
		return true
	}
	for _, id := range p.HexTitleIDs() {
		if strings.Contains(id, filter) {
			return true
		}
	}
	return false
}
