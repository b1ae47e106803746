package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository of pack documents to ports.PackLoader.
type Loader struct {
	Repo *loam.TypedRepository[PackMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[PackMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initialises a read-only, strict Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pack directory: %w", err)
	}
	repo, err := loam.Init(abs, loam.WithStrict(true), loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open pack directory %s: %w", abs, err)
	}
	return New(loam.NewTypedRepository[PackMetadata](repo)), nil
}

// ListPacks decodes every document in the repository, sorted by path.
func (l *Loader) ListPacks(ctx context.Context) ([]domain.Pack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	packs := make([]domain.Pack, 0, len(docs))
	for _, doc := range docs {
		pack, err := toPack(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", doc.ID, err)
		}
		if existing, ok := seen[pack.Path]; ok {
			return nil, fmt.Errorf("collision detected: path '%s' is defined in both '%s' and '%s'", pack.Path, existing, doc.ID)
		}
		seen[pack.Path] = doc.ID
		packs = append(packs, pack)
	}

	slices.SortFunc(packs, func(a, b domain.Pack) int { return strings.Compare(a.Path, b.Path) })
	return packs, nil
}

func toPack(docID string, meta PackMetadata, content string) (domain.Pack, error) {
	path := meta.Path
	if path == "" {
		path = trimExtension(docID)
	}

	version, err := parseVersion(meta.Version)
	if err != nil {
		return domain.Pack{}, err
	}

	ids := make([]uint64, 0, len(meta.TitleIDs))
	for _, raw := range meta.TitleIDs {
		id, err := parseTitleID(raw)
		if err != nil {
			return domain.Pack{}, err
		}
		ids = append(ids, id)
	}

	presets, err := toPresets(meta.Presets)
	if err != nil {
		return domain.Pack{}, err
	}

	return domain.Pack{
		Path:        path,
		Name:        meta.Name,
		Version:     version,
		Enabled:     meta.Enabled,
		Activated:   meta.Activated,
		TitleIDs:    ids,
		Description: strings.TrimSpace(content),
		Presets:     presets,
	}, nil
}

// toPresets validates the presets list. Names may be bare numbers ("name: 1080"),
// so they are formatted back to text.
func toPresets(list []PresetMetadata) ([]domain.Preset, error) {
	out := make([]domain.Preset, 0, len(list))
	type key struct{ category, name string }
	seen := make(map[key]bool, len(list))
	defaults := make(map[string]bool)
	for _, m := range list {
		var name string
		switch v := m.Name.(type) {
		case nil:
		case string:
			name = strings.TrimSpace(v)
		default:
			name = fmt.Sprint(v)
		}
		category := strings.TrimSpace(m.Category)
		if name == "" {
			return nil, fmt.Errorf("preset in category %q has no name", category)
		}
		k := key{category, name}
		if seen[k] {
			return nil, fmt.Errorf("duplicate preset %q in category %q", name, category)
		}
		seen[k] = true
		if m.Default {
			if defaults[category] {
				return nil, fmt.Errorf("category %q has more than one default preset", category)
			}
			defaults[category] = true
		}
		out = append(out, domain.Preset{Category: category, Name: name, Default: m.Default})
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// parseTitleID reads a hex title id, "0x" optional. Unquoted ids are refused:
// YAML has already read their digits as a decimal or octal number.
func parseTitleID(raw any) (uint64, error) {
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("title id %v must be quoted, e.g. \"00050000101c9500\"", raw)
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid title id %q: %w", s, err)
	}
	return id, nil
}

// parseVersion accepts the numeric shapes strict and lax decoding produce.
// A missing version is 0, which no build supports.
func parseVersion(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float64:
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", x, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", x, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid version type %T", v)
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. It reports the ID of every changed document.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
