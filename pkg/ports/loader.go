package ports

import (
	"context"

	"github.com/aretw0/checktree/pkg/domain"
)

// PackLoader defines how the browser retrieves graphic packs.
// This allows the source (Loam, Memory) to be decoupled.
type PackLoader interface {
	// ListPacks returns every pack known to the source.
	ListPacks(ctx context.Context) ([]domain.Pack, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload.
type Watchable interface {
	// Watch returns a channel that receives the id of each changed document.
	Watch(ctx context.Context) (<-chan string, error)
}
