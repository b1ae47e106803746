package ports

import (
	"context"

	"github.com/aretw0/checktree/pkg/domain"
)

// SnapshotStore defines the interface for persisting which packs are enabled.
type SnapshotStore interface {
	// Save persists the snapshot under the given name.
	Save(ctx context.Context, name string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given name.
	// Returns domain.ErrSnapshotNotFound if it does not exist.
	Load(ctx context.Context, name string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given name.
	Delete(ctx context.Context, name string) error
}

// Lister is implemented by stores that can enumerate their snapshots.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
