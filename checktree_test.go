package checktree_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/machine"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixturePacks = []domain.Pack{
	{Path: "Enhancements/Zelda/Resolution", Version: 7, Presets: []domain.Preset{
		{Category: "Resolution", Name: "1080p", Default: true},
		{Category: "Resolution", Name: "1440p"},
	}},
	{Path: "Enhancements/Zelda/Shadows", Version: 6, Enabled: true},
	{Path: "Mods/Zelda/FPS++", Version: 5, TitleIDs: []uint64{0x00050000101c9500}},
	{Path: "Mods/Old/Bloom", Version: 1},
}

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func newBrowser(t *testing.T, opts ...checktree.Option) *checktree.Browser {
	t.Helper()
	opts = append([]checktree.Option{
		checktree.WithLoader(memory.NewLoader(fixturePacks...)),
		checktree.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	b, err := checktree.New("", opts...)
	require.NoError(t, err)
	return b
}

func nodeFor(t *testing.T, b *checktree.Browser, path string) domain.NodeID {
	t.Helper()
	id, err := b.NodeFor(path)
	require.NoError(t, err)
	return id
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := checktree.New("")
	assert.Error(t, err)
}

func TestNew_LoamDirectory(t *testing.T) {
	dir := t.TempDir()
	content := "---\npath: Mods/Zelda/FPS++\nversion: 5\nenabled: true\n---\nUnlocks the frame rate.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fps.md"), []byte(content), 0644))

	b, err := checktree.New(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), b.Name)

	id := nodeFor(t, b, "Mods/Zelda/FPS++")
	n, err := b.Node(id)
	require.NoError(t, err)
	require.NotNil(t, n.Pack)
	assert.Equal(t, "Unlocks the frame rate.", n.Pack.Description)
	assert.Equal(t, domain.CheckState{Base: domain.Checked}, *n.State)
}

func TestBrowser_ToggleSavesSnapshot(t *testing.T) {
	store := memory.NewStore()
	var choices []domain.ChoiceEvent
	b := newBrowser(t,
		checktree.WithStore(store),
		checktree.WithSessionName("mine"),
		checktree.WithHooks(domain.Hooks{
			OnCheckChanged: func(ctx context.Context, ev *domain.ChoiceEvent) { choices = append(choices, *ev) },
		}),
	)
	ctx := context.Background()
	id := nodeFor(t, b, "Enhancements/Zelda/Resolution")

	require.NoError(t, b.Toggle(ctx, id))

	require.Len(t, choices, 1)
	assert.Equal(t, domain.ChoiceEvent{Timestamp: fixedNow, Node: id, Checked: true}, choices[0])

	snap, err := store.Load(ctx, "mine")
	require.NoError(t, err)
	assert.True(t, snap.Enabled["Enhancements/Zelda/Resolution"])
	assert.True(t, snap.Enabled["Enhancements/Zelda/Shadows"])
	assert.Equal(t, fixedNow, snap.UpdatedAt)

	n, err := b.Node(id)
	require.NoError(t, err)
	assert.True(t, n.Pack.Enabled)
}

func TestBrowser_RestoresSnapshot(t *testing.T) {
	store := memory.NewStore()
	snap := domain.NewSnapshot(checktree.DefaultSession)
	snap.Enabled["Mods/Zelda/FPS++"] = true
	snap.Enabled["Enhancements/Zelda/Shadows"] = false
	require.NoError(t, store.Save(context.Background(), checktree.DefaultSession, snap))

	b := newBrowser(t, checktree.WithStore(store))
	assert.True(t, b.Machine().IsChecked(nodeFor(t, b, "Mods/Zelda/FPS++")))
	assert.False(t, b.Machine().IsChecked(nodeFor(t, b, "Enhancements/Zelda/Shadows")))
}

type failingStore struct{ *memory.Store }

func (failingStore) Save(context.Context, string, *domain.Snapshot) error {
	return errors.New("disk full")
}

func TestBrowser_SaveErrorsSurface(t *testing.T) {
	b := newBrowser(t, checktree.WithStore(failingStore{memory.NewStore()}))
	ctx := context.Background()
	id := nodeFor(t, b, "Enhancements/Zelda/Resolution")

	err := b.Toggle(ctx, id)
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, b.Machine().IsChecked(id), "the checkbox still toggles")

	// The error is reported once.
	p, ok := b.PointOf(id, memory.PartLabel)
	require.True(t, ok)
	_, err = b.Dispatch(ctx, domain.InputEvent{Kind: domain.EventMotion, Pos: p})
	assert.NoError(t, err)
}

func TestBrowser_Dispatch(t *testing.T) {
	b := newBrowser(t)
	ctx := context.Background()
	id := nodeFor(t, b, "Mods/Zelda/FPS++")

	// Groups start collapsed; expand the path with button clicks.
	for _, group := range []string{"Mods", "Zelda"} {
		var gid domain.NodeID
		for _, r := range b.Rows() {
			if r.Text == group {
				gid = r.ID
			}
		}
		require.False(t, gid.IsZero(), "group %s should be visible", group)
		p, ok := b.PointOf(gid, memory.PartButton)
		require.True(t, ok)
		_, err := b.Dispatch(ctx, domain.InputEvent{Kind: domain.EventLeftUp, Pos: p})
		require.NoError(t, err)
	}

	p, ok := b.PointOf(id, memory.PartIcon)
	require.True(t, ok)
	_, err := b.Dispatch(ctx, domain.InputEvent{Kind: domain.EventLeftDown, Pos: p, LeftDown: true})
	require.NoError(t, err)
	assert.Equal(t, id, b.Cursors().PressedDown)

	_, err = b.Dispatch(ctx, domain.InputEvent{Kind: domain.EventLeftUp, Pos: p})
	require.NoError(t, err)

	pack, ok := findPack(b.Packs(), "Mods/Zelda/FPS++")
	require.True(t, ok)
	assert.True(t, pack.Enabled)
}

func findPack(list []domain.Pack, path string) (domain.Pack, bool) {
	for _, p := range list {
		if p.Path == path {
			return p, true
		}
	}
	return domain.Pack{}, false
}

func TestBrowser_Toggle_Errors(t *testing.T) {
	b := newBrowser(t)
	ctx := context.Background()

	assert.ErrorIs(t, b.Toggle(ctx, "missing"), domain.ErrNodeNotFound)
	assert.ErrorIs(t, b.Toggle(ctx, nodeFor(t, b, "Mods/Old/Bloom")), domain.ErrNodeDisabled)

	// Collapsed ancestors are expanded first.
	fps := nodeFor(t, b, "Mods/Zelda/FPS++")
	zelda := b.Tree().Parent(fps)
	require.False(t, b.Tree().IsExpanded(zelda))
	require.NoError(t, b.Toggle(ctx, fps))
	assert.True(t, b.Tree().IsExpanded(zelda))
	assert.True(t, b.Tree().IsExpanded(b.Tree().Parent(zelda)))
	assert.True(t, b.Machine().IsChecked(fps))
}

func TestBrowser_Toggle_AfterUnfinishedDrag(t *testing.T) {
	b := newBrowser(t)
	ctx := context.Background()
	id := nodeFor(t, b, "Enhancements/Zelda/Resolution")

	// The pointer entered with the button held and left without a release.
	_, err := b.Dispatch(ctx, domain.InputEvent{Kind: domain.EventMouseEnter, LeftDown: true})
	require.NoError(t, err)
	_, err = b.Dispatch(ctx, domain.InputEvent{Kind: domain.EventMouseLeave})
	require.NoError(t, err)

	require.NoError(t, b.Toggle(ctx, id))
	assert.True(t, b.Machine().IsChecked(id))
	assert.False(t, b.Cursors().EnteredWithButtonDown)
}

func TestBrowser_Toggle_NotCommitted(t *testing.T) {
	table := machine.DefaultDispatch()
	table[domain.EventLeftUp] = func(*machine.Machine, context.Context, domain.InputEvent) bool { return false }
	b := newBrowser(t, checktree.WithDispatch(table))
	id := nodeFor(t, b, "Enhancements/Zelda/Resolution")

	err := b.Toggle(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotCommitted)
	assert.False(t, b.Machine().IsChecked(id))
}

func TestBrowser_SetChecked(t *testing.T) {
	store := memory.NewStore()
	var notified int
	b := newBrowser(t, checktree.WithStore(store), checktree.WithHooks(domain.Hooks{
		OnCheckChanged: func(context.Context, *domain.ChoiceEvent) { notified++ },
	}))
	ctx := context.Background()
	id := nodeFor(t, b, "Enhancements/Zelda/Shadows")

	require.NoError(t, b.SetChecked(ctx, id, false))
	assert.False(t, b.Machine().IsChecked(id))
	assert.Zero(t, notified)

	snap, err := store.Load(ctx, checktree.DefaultSession)
	require.NoError(t, err)
	assert.False(t, snap.Enabled["Enhancements/Zelda/Shadows"])

	assert.ErrorIs(t, b.SetChecked(ctx, nodeFor(t, b, "Mods/Old/Bloom"), true), domain.ErrNodeDisabled)
}

func TestBrowser_SetPreset(t *testing.T) {
	store := memory.NewStore()
	b := newBrowser(t, checktree.WithStore(store))
	ctx := context.Background()
	id := nodeFor(t, b, "Enhancements/Zelda/Resolution")

	require.NoError(t, b.SetPreset(ctx, id, "Resolution", "1440p"))
	n, err := b.Node(id)
	require.NoError(t, err)
	assert.Equal(t, "1440p", n.Pack.ActivePreset("Resolution"))
	assert.False(t, n.Pack.Enabled, "choosing a preset does not enable the pack")

	snap, err := store.Load(ctx, checktree.DefaultSession)
	require.NoError(t, err)
	assert.Equal(t, "1440p", snap.Presets["Enhancements/Zelda/Resolution"]["Resolution"])

	assert.ErrorIs(t, b.SetPreset(ctx, id, "Resolution", "4K"), domain.ErrPresetNotFound)
	assert.ErrorIs(t, b.SetPreset(ctx, b.Tree().Root(), "", "x"), domain.ErrNodeNotFound)

	// Choices survive a reload and a fresh browser on the same store.
	require.NoError(t, b.Reload(ctx, ""))
	n, err = b.Node(nodeFor(t, b, "Enhancements/Zelda/Resolution"))
	require.NoError(t, err)
	assert.Equal(t, "1440p", n.Pack.ActivePreset("Resolution"))

	again := newBrowser(t, checktree.WithStore(store))
	n, err = again.Node(nodeFor(t, again, "Enhancements/Zelda/Resolution"))
	require.NoError(t, err)
	assert.Equal(t, "1440p", n.Pack.ActivePreset("Resolution"))
}

func TestBrowser_SetEnabled(t *testing.T) {
	b := newBrowser(t)
	id := nodeFor(t, b, "Enhancements/Zelda/Resolution")

	require.NoError(t, b.SetEnabled(id, false))
	n, err := b.Node(id)
	require.NoError(t, err)
	assert.True(t, n.State.IsDisabled())
	assert.Equal(t, domain.DisabledColor, n.Colour)

	require.NoError(t, b.SetEnabled(id, true))
	n, err = b.Node(id)
	require.NoError(t, err)
	assert.False(t, n.State.IsDisabled())
	assert.Equal(t, domain.Color(""), n.Colour)

	assert.ErrorIs(t, b.SetEnabled(nodeFor(t, b, "Mods/Old/Bloom"), true), domain.ErrNodeDisabled)
	assert.ErrorIs(t, b.SetEnabled("missing", false), domain.ErrNodeNotFound)
}

func TestBrowser_FilterAndReload(t *testing.T) {
	b := newBrowser(t)
	ctx := context.Background()
	require.NoError(t, b.Toggle(ctx, nodeFor(t, b, "Enhancements/Zelda/Resolution")))

	b.SetFilter("101c95")
	assert.Equal(t, "101c95", b.Filter())
	_, err := b.NodeFor("Enhancements/Zelda/Resolution")
	assert.ErrorIs(t, err, domain.ErrPackNotFound)

	rows := b.Rows()
	require.Len(t, rows, 3, "a filter expands every group")
	assert.Equal(t, "FPS++", rows[2].Text)

	require.NoError(t, b.Reload(ctx, ""))
	assert.True(t, b.Machine().IsChecked(nodeFor(t, b, "Enhancements/Zelda/Resolution")), "choices survive a reload")
	assert.Len(t, b.Packs(), len(fixturePacks))
}

func TestBrowser_Node(t *testing.T) {
	b := newBrowser(t)
	id := nodeFor(t, b, "Mods/Old/Bloom")

	n, err := b.Node(id)
	require.NoError(t, err)
	assert.Equal(t, "Bloom (Unsupported version)", n.Text)
	assert.Equal(t, 2, n.Depth)
	assert.Equal(t, domain.DisabledColor, n.Colour)

	_, err = b.Node("missing")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestBrowser_SelectAndFocus(t *testing.T) {
	var focus int
	b := newBrowser(t, checktree.WithHooks(domain.Hooks{
		OnFocusFromKeyboard: func(context.Context, *domain.FocusEvent) { focus++ },
	}))
	ctx := context.Background()
	rows := b.Rows()
	require.NotEmpty(t, rows)

	require.NoError(t, b.Select(ctx, rows[0].ID))
	assert.Equal(t, rows[0].ID, b.Cursors().KeyboardFocus)

	_, err := b.Dispatch(ctx, domain.InputEvent{Kind: domain.EventFocusLost})
	require.NoError(t, err)
	assert.True(t, b.Tree().Selection().IsZero())

	b.SetFocusFromKeyboard(ctx)
	assert.Equal(t, rows[0].ID, b.Tree().Selection())
	assert.Equal(t, 1, focus)

	assert.ErrorIs(t, b.Select(ctx, "missing"), domain.ErrNodeNotFound)
}

func TestBrowser_Watch_Unsupported(t *testing.T) {
	b := newBrowser(t)
	_, err := b.Watch(context.Background())
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, checktree.Version)
}

func TestBrowser_Expand(t *testing.T) {
	b := newBrowser(t)
	rows := b.Rows()
	require.NotEmpty(t, rows)
	group := rows[0].ID
	before := len(rows)

	require.NoError(t, b.Expand(group, true))
	assert.Greater(t, len(b.Rows()), before)

	require.NoError(t, b.Expand(group, false))
	assert.Len(t, b.Rows(), before)

	assert.ErrorIs(t, b.Expand("missing", true), domain.ErrNodeNotFound)
}
