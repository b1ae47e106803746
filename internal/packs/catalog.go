package packs

import (
	"fmt"
	"maps"
	"time"

	"github.com/aretw0/checktree/pkg/domain"
)

// Catalog holds every loaded pack and remembers which tree node each visible pack was placed at.
type Catalog struct {
	packs []domain.Pack
	nodes map[domain.NodeID]int
	paths map[string]domain.NodeID
}

// NewCatalog copies packs into a new catalog.
func NewCatalog(packs []domain.Pack) *Catalog {
	c := &Catalog{packs: make([]domain.Pack, len(packs))}
	for i, p := range packs {
		c.packs[i] = p.Clone()
	}
	c.resetNodes()
	return c
}

func (c *Catalog) resetNodes() {
	c.nodes = make(map[domain.NodeID]int)
	c.paths = make(map[string]domain.NodeID)
}

func (c *Catalog) place(node domain.NodeID, i int) {
	c.nodes[node] = i
	if _, ok := c.paths[c.packs[i].Path]; !ok {
		c.paths[c.packs[i].Path] = node
	}
}

// Packs returns a copy of every pack, visible or not.
func (c *Catalog) Packs() []domain.Pack {
	out := make([]domain.Pack, len(c.packs))
	for i, p := range c.packs {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of packs.
func (c *Catalog) Len() int { return len(c.packs) }

// Pack returns the first pack with the given path.
func (c *Catalog) Pack(path string) (domain.Pack, bool) {
	for _, p := range c.packs {
		if p.Path == path {
			return p.Clone(), true
		}
	}
	return domain.Pack{}, false
}

// PackFor returns the pack shown at node.
func (c *Catalog) PackFor(node domain.NodeID) (domain.Pack, bool) {
	i, ok := c.nodes[node]
	if !ok {
		return domain.Pack{}, false
	}
	return c.packs[i].Clone(), true
}

// NodeFor returns the node a pack path was placed at by the last build.
func (c *Catalog) NodeFor(path string) (domain.NodeID, bool) {
	id, ok := c.paths[path]
	return id, ok
}

// Apply records a committed choice on the pack behind the node.
func (c *Catalog) Apply(ev domain.ChoiceEvent) (domain.Pack, bool) {
	i, ok := c.nodes[ev.Node]
	if !ok {
		return domain.Pack{}, false
	}
	c.packs[i].Enabled = ev.Checked
	return c.packs[i].Clone(), true
}

// SetPreset chooses a preset on every pack with the given path that declares it.
func (c *Catalog) SetPreset(path, category, name string) (domain.Pack, error) {
	found, chosen := -1, -1
	var err error
	for i := range c.packs {
		if c.packs[i].Path != path {
			continue
		}
		found = i
		if e := c.packs[i].SetActivePreset(category, name); e != nil {
			err = e
			continue
		}
		chosen = i
	}
	switch {
	case found < 0:
		return domain.Pack{}, fmt.Errorf("%w: %s", domain.ErrPackNotFound, path)
	case chosen < 0:
		return domain.Pack{}, err
	}
	return c.packs[chosen].Clone(), nil
}

// Restore sets Enabled on every pack the snapshot mentions and reapplies its
// preset choices. Packs whose format cannot be enabled stay disabled, and
// choices naming presets a pack no longer declares are dropped.
func (c *Catalog) Restore(snap *domain.Snapshot) {
	for i := range c.packs {
		p := &c.packs[i]
		if enabled, ok := snap.Enabled[p.Path]; ok {
			p.Enabled = enabled && p.Supported()
		}
		for category, name := range snap.Presets[p.Path] {
			_ = p.SetActivePreset(category, name)
		}
	}
}

// Snapshot captures the Enabled flag of every pack.
func (c *Catalog) Snapshot(name string, now time.Time) *domain.Snapshot {
	snap := domain.NewSnapshot(name)
	for _, p := range c.packs {
		snap.Enabled[p.Path] = p.Enabled
		if len(p.ActivePresets) == 0 {
			continue
		}
		if snap.Presets == nil {
			snap.Presets = make(map[string]map[string]string)
		}
		snap.Presets[p.Path] = maps.Clone(p.ActivePresets)
	}
	snap.UpdatedAt = now
	return snap
}
