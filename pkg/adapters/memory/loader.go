package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/checktree/pkg/domain"
)

// Loader implements ports.PackLoader over a fixed list of packs.
type Loader struct {
	packs []domain.Pack
}

// NewLoader creates a Loader returning copies of the given packs.
func NewLoader(packs ...domain.Pack) *Loader {
	return &Loader{packs: slices.Clone(packs)}
}

// ListPacks returns the packs in insertion order.
func (l *Loader) ListPacks(ctx context.Context) ([]domain.Pack, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	out := make([]domain.Pack, len(l.packs))
	for i, p := range l.packs {
		out[i] = p.Clone()
	}
	return out, nil
}
