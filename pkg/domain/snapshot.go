package domain

import (
	"maps"
	"time"
)

// Snapshot records which packs were enabled, keyed by pack path, and the
// presets chosen on them (path, then category, then preset name).
type Snapshot struct {
	Name      string                       `json:"name"`
	Enabled   map[string]bool              `json:"enabled"`
	Presets   map[string]map[string]string `json:"presets,omitempty"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot(name string) *Snapshot {
	return &Snapshot{
		Name:    name,
		Enabled: make(map[string]bool),
	}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Enabled = make(map[string]bool, len(s.Enabled))
	for k, v := range s.Enabled {
		c.Enabled[k] = v
	}
	if s.Presets != nil {
		c.Presets = make(map[string]map[string]string, len(s.Presets))
		for k, v := range s.Presets {
			c.Presets[k] = maps.Clone(v)
		}
	}
	return &c
}
