package domain

import (
	"fmt"
	"maps"
	"slices"
)

// PackVersionMin and PackVersionMax bound the pack formats the browser can enable.
const (
	PackVersionMin = 3
	PackVersionMax = 7
	// PackVersionLegacy packs load but may misbehave on Vulkan.
	PackVersionLegacy = 3
)

// Pack is a graphic pack entry. Its Path ("Category/Game/Name") places it in the tree.
type Pack struct {
	Path        string   `json:"path" yaml:"path"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Version     int      `json:"version" yaml:"version"`
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	Activated   bool     `json:"activated,omitempty" yaml:"activated,omitempty"`
	TitleIDs    []uint64 `json:"title_ids,omitempty" yaml:"title_ids,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Presets     []Preset `json:"presets,omitempty" yaml:"presets,omitempty"`
	// ActivePresets holds explicit choices, category to preset name.
	ActivePresets map[string]string `json:"active_presets,omitempty" yaml:"active_presets,omitempty"`
}

// Preset is one named option of a pack. Presets sharing a Category are
// alternatives; the empty category is the pack's unnamed one.
type Preset struct {
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Default  bool   `json:"default,omitempty" yaml:"default,omitempty"`
}

// Categories returns the preset categories in the order they first appear.
func (p Pack) Categories() []string {
	var out []string
	for _, pr := range p.Presets {
		if !slices.Contains(out, pr.Category) {
			out = append(out, pr.Category)
		}
	}
	return out
}

// PresetsIn returns the presets of one category, in declaration order.
func (p Pack) PresetsIn(category string) []Preset {
	var out []Preset
	for _, pr := range p.Presets {
		if pr.Category == category {
			out = append(out, pr)
		}
	}
	return out
}

// ActivePreset returns the chosen preset of a category: the explicit choice,
// else the default one, else the first. It is empty for an unknown category.
func (p Pack) ActivePreset(category string) string {
	in := p.PresetsIn(category)
	if len(in) == 0 {
		return ""
	}
	if name, ok := p.ActivePresets[category]; ok {
		for _, pr := range in {
			if pr.Name == name {
				return name
			}
		}
	}
	for _, pr := range in {
		if pr.Default {
			return pr.Name
		}
	}
	return in[0].Name
}

// SetActivePreset records name as the choice for category.
func (p *Pack) SetActivePreset(category, name string) error {
	for _, pr := range p.Presets {
		if pr.Category == category && pr.Name == name {
			if p.ActivePresets == nil {
				p.ActivePresets = make(map[string]string)
			}
			p.ActivePresets[category] = name
			return nil
		}
	}
	return fmt.Errorf("%w: %q in category %q of %s", ErrPresetNotFound, name, category, p.Path)
}

// Clone returns a copy that shares no slices or maps with p.
func (p Pack) Clone() Pack {
	p.TitleIDs = slices.Clone(p.TitleIDs)
	p.Presets = slices.Clone(p.Presets)
	p.ActivePresets = maps.Clone(p.ActivePresets)
	return p
}

// Supported reports whether the pack format can be enabled.
func (p Pack) Supported() bool {
	return p.Version >= PackVersionMin && p.Version <= PackVersionMax
}

// HexTitleIDs returns the title ids as lowercase hex strings.
func (p Pack) HexTitleIDs() []string {
	out := make([]string, 0, len(p.TitleIDs))
	for _, id := range p.TitleIDs {
		out = append(out, fmt.Sprintf("%x", id))
	}
	return out
}

// ContainsTitle reports whether the pack targets the given title.
func (p Pack) ContainsTitle(id uint64) bool {
	return slices.Contains(p.TitleIDs, id)
}
