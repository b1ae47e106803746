package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/checktree/internal/adapters/file"
	"github.com/aretw0/checktree/internal/config"
	"github.com/aretw0/checktree/internal/logging"
	"github.com/aretw0/checktree/internal/testutils"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name  string
		cfg   func(c *config.Config)
		check func(t *testing.T, store any)
	}{
		{"none", func(c *config.Config) { c.Store = config.StoreNone }, func(t *testing.T, s any) { assert.Nil(t, s) }},
		{"memory", func(c *config.Config) { c.Store = config.StoreMemory }, func(t *testing.T, s any) { assert.IsType(t, &memory.Store{}, s) }},
		{"file", func(c *config.Config) { c.Store = config.StoreFile; c.SnapshotDir = t.TempDir() }, func(t *testing.T, s any) { assert.IsType(t, &file.Store{}, s) }},
		{"redis", func(c *config.Config) { c.Store = config.StoreRedis; c.Redis.Addr = mr.Addr(); c.Redis.TTL = "1h" }, func(t *testing.T, s any) { assert.IsType(t, &redis.Store{}, s) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.cfg(&cfg)
			store, closeStore, err := OpenStore(ctx, cfg)
			require.NoError(t, err)
			require.NotNil(t, closeStore)
			defer func() { assert.NoError(t, closeStore()) }()
			if store == nil {
				tt.check(t, nil)
				return
			}
			tt.check(t, store)
		})
	}
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Store = "s3"
	_, closeStore, err := OpenStore(ctx, cfg)
	assert.Error(t, err)
	assert.NoError(t, closeStore())

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	cfg = config.Default()
	cfg.Store = config.StoreRedis
	cfg.Redis.Addr = addr
	_, _, err = OpenStore(ctx, cfg)
	assert.ErrorContains(t, err, addr)
}

func TestNewBrowser_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"fps.md":   testutils.PackDoc("Mods/Zelda/FPS++", 5) + "Unlocks the frame rate.\n",
		"bloom.md": testutils.PackDoc("Enhancements/Zelda/Bloom", 6, "00050000101c9500"),
	})

	cfg := config.Default()
	cfg.Dir = dir
	cfg.Store = config.StoreFile
	cfg.SnapshotDir = filepath.Join(dir, ".snapshots")
	cfg.Session = "tests"

	ctx := context.Background()
	b, closeStore, err := NewBrowser(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer closeStore()

	id, err := b.NodeFor("Mods/Zelda/FPS++")
	require.NoError(t, err)
	require.NoError(t, b.Toggle(ctx, id))
	assert.FileExists(t, filepath.Join(cfg.SnapshotDir, "tests.json"))

	// a second browser restores the choice
	b2, closeStore2, err := NewBrowser(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer closeStore2()
	id2, err := b2.NodeFor("Mods/Zelda/FPS++")
	require.NoError(t, err)
	n, err := b2.Node(id2)
	require.NoError(t, err)
	require.NotNil(t, n.Pack)
	assert.True(t, n.Pack.Enabled)
}

func TestNewBrowser_InstalledTitles(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"fps.md":   testutils.PackDoc("Mods/Zelda/FPS++", 5, "00050000101c9500"),
		"mario.md": testutils.PackDoc("Mods/Mario/FPS++", 5, "0005000010145d00"),
	})

	cfg := config.Default()
	cfg.Dir = dir
	cfg.Store = config.StoreNone
	cfg.InstalledTitles = []string{"0x00050000101C9500"}

	b, closeStore, err := NewBrowser(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer closeStore()

	_, err = b.NodeFor("Mods/Zelda/FPS++")
	assert.NoError(t, err)
	_, err = b.NodeFor("Mods/Mario/FPS++")
	assert.Error(t, err)
}

func TestNewBrowser_BadTitles(t *testing.T) {
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	cfg.Store = config.StoreMemory
	cfg.InstalledTitles = []string{"zz"}
	_, closeStore, err := NewBrowser(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
	assert.NoError(t, closeStore())
}
