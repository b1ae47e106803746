package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/adapters/file"
	"github.com/aretw0/checktree/internal/config"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/adapters/redis"
	"github.com/aretw0/checktree/pkg/observability"
	"github.com/aretw0/checktree/pkg/ports"
)

// OpenStore builds the snapshot store named by cfg.Store.
// The returned close function is never nil.
func OpenStore(ctx context.Context, cfg config.Config) (ports.SnapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreNone:
		return nil, noop, nil
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.SnapshotDir), noop, nil
	case config.StoreRedis:
		ttl, err := cfg.RedisTTL()
		if err != nil {
			return nil, noop, err
		}
		opts := []redis.Option{redis.WithTTL(ttl)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, "", 0, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
}

// NewBrowser opens the pack directory and snapshot store named by cfg.
// Debug logging adds a hook that logs every committed choice.
func NewBrowser(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...checktree.Option) (*checktree.Browser, func() error, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, closeStore, err
	}

	titles, err := cfg.TitleIDs()
	if err != nil {
		return nil, closeStore, err
	}

	opts := []checktree.Option{
		checktree.WithLogger(logger),
		checktree.WithSessionName(cfg.Session),
		checktree.WithFilter(cfg.Filter),
		checktree.WithInstalledTitles(titles),
	}
	if store != nil {
		opts = append(opts, checktree.WithStore(store))
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		opts = append(opts, checktree.WithHooks(observability.LoggingHooks(logger)))
	}
	opts = append(opts, extra...)

	b, err := checktree.New(cfg.Dir, opts...)
	if err != nil {
		_ = closeStore()
		return nil, func() error { return nil }, fmt.Errorf("error initializing checktree: %w", err)
	}
	return b, closeStore, nil
}
