package loam

// PackMetadata is the front matter of a pack document.
//
//	---
//	path: Enhancements/Breath of the Wild/Resolution
//	version: 7
//	enabled: true
//	title_ids: ["00050000101c9500", "00050000101c9400"]
//	presets:
//	  - {category: Resolution, name: 1080p, default: true}
//	  - {category: Resolution, name: 1440p}
//	---
//	Renders the game at a higher internal resolution.
//
// The document body becomes the pack description.
type PackMetadata struct {
	// Path places the pack in the tree. Defaults to the document ID without extension.
	Path    string `json:"path" mapstructure:"path"`
	Name    string `json:"name" mapstructure:"name"`
	Version any    `json:"version" mapstructure:"version"`
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	// Activated marks a pack that is currently running in the emulator.
	Activated bool `json:"activated" mapstructure:"activated"`
	// TitleIDs are hex strings; quote them so YAML keeps them as text.
	TitleIDs []any `json:"title_ids" mapstructure:"title_ids"`
	// Presets are listed in display order; the first of a category wins unless one is the default.
	Presets []PresetMetadata `json:"presets" mapstructure:"presets"`
}

// PresetMetadata is one entry of the presets list.
type PresetMetadata struct {
	Category string `json:"category" mapstructure:"category"`
	Name     any    `json:"name" mapstructure:"name"`
	Default  bool   `json:"default" mapstructure:"default"`
}
