package tests

import (
	"context"
	"testing"

	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/checktree/pkg/ports"
)

// PackLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.PackLoader.
// want maps every pack path the loader is expected to return to the pack it should decode to.
func PackLoaderContractTest(t *testing.T, loader ports.PackLoader, want map[string]domain.Pack) {
	t.Helper()

	packs, err := loader.ListPacks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error listing packs: %v", err)
	}

	t.Run("ListPacks_Count", func(t *testing.T) {
		if len(packs) != len(want) {
			t.Errorf("expected %d packs, got %d", len(want), len(packs))
		}
	})

	t.Run("ListPacks_Content", func(t *testing.T) {
		lookup := make(map[string]domain.Pack, len(packs))
		for _, p := range packs {
			lookup[p.Path] = p
		}

		for path, expected := range want {
			got, ok := lookup[path]
			if !ok {
				t.Errorf("pack %s missing from list", path)
				continue
			}
			if got.Version != expected.Version {
				t.Errorf("version mismatch for %s. got %d, want %d", path, got.Version, expected.Version)
			}
			if got.Enabled != expected.Enabled {
				t.Errorf("enabled mismatch for %s. got %v, want %v", path, got.Enabled, expected.Enabled)
			}
			if got.Activated != expected.Activated {
				t.Errorf("activated mismatch for %s. got %v, want %v", path, got.Activated, expected.Activated)
			}
			if len(got.TitleIDs) != len(expected.TitleIDs) {
				t.Errorf("title ids mismatch for %s. got %v, want %v", path, got.TitleIDs, expected.TitleIDs)
			}
		}
	})

	t.Run("ListPacks_Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := loader.ListPacks(ctx); err == nil {
			t.Error("expected error for cancelled context, got nil")
		}
	})
}
