package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrowser(t *testing.T) *checktree.Browser {
	t.Helper()
	b, err := checktree.New("", checktree.WithLoader(memory.NewLoader(
		domain.Pack{Path: "Mods/Zelda/FPS++", Version: 5},
		domain.Pack{Path: "Mods/Zelda/Bloom", Version: 6, Enabled: true},
	)))
	require.NoError(t, err)
	return b
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
name: demo
steps:
  - kind: motion
    x: "4"
    y: 1
    button: left
  - kind: left_down
    target: Mods/Zelda/FPS++
    part: label
  - expect: Mods/Zelda/FPS++
    checked: true
`))
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	require.Len(t, s.Steps, 3)
	require.NotNil(t, s.Steps[0].X)
	assert.Equal(t, 4, *s.Steps[0].X, "weakly typed numbers are accepted")
	assert.Equal(t, "label", s.Steps[1].Part)
	require.NotNil(t, s.Steps[2].Checked)
	assert.True(t, *s.Steps[2].Checked)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"yaml", "steps: [oops"},
		{"unknown key", "steps:\n  - kind: motion\n    colour: red"},
		{"missing kind", "steps:\n  - key: space"},
		{"unknown kind", "steps:\n  - kind: right_down"},
		{"half a point", "steps:\n  - kind: motion\n    x: 1"},
		{"point and target", "steps:\n  - kind: motion\n    x: 1\n    y: 1\n    target: A/B"},
		{"bad part", "steps:\n  - kind: left_down\n    target: A/B\n    part: tail"},
		{"bad button", "steps:\n  - kind: motion\n    button: right"},
		{"select without target", "steps:\n  - kind: select"},
		{"expect without checked", "steps:\n  - expect: A/B"},
		{"expect with kind", "steps:\n  - expect: A/B\n    checked: true\n    kind: motion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - kind: focus_set\n"), 0644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStep_EventResolvesTarget(t *testing.T) {
	b := newBrowser(t)
	require.NoError(t, b.Toggle(context.Background(), mustNode(t, b, "Mods/Zelda/Bloom")))

	st := Step{Kind: "left_down", Target: "Mods/Zelda/FPS++"}
	ev, err := st.Event(b)
	require.NoError(t, err)

	id := mustNode(t, b, "Mods/Zelda/FPS++")
	want, ok := b.PointOf(id, memory.PartIcon)
	require.True(t, ok)
	assert.Equal(t, want, ev.Pos)
	assert.True(t, ev.LeftDown)

	x, y := 3, 7
	ev, err = Step{Kind: "motion", X: &x, Y: &y, Button: "left"}.Event(b)
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 3, Y: 7}, ev.Pos)
	assert.True(t, ev.LeftDown)

	ev, err = Step{Kind: "key_down", Key: "Space"}.Event(b)
	require.NoError(t, err)
	assert.Equal(t, domain.KeySpace, ev.Key)
}

func TestRun_ClickKeyboardAndToggle(t *testing.T) {
	b := newBrowser(t)
	s, err := Parse([]byte(`
steps:
  - kind: toggle
    target: Mods/Zelda/FPS++
  - expect: Mods/Zelda/FPS++
    checked: true
  - kind: left_down
    target: Mods/Zelda/FPS++
  - kind: left_up
    target: Mods/Zelda/FPS++
  - expect: Mods/Zelda/FPS++
    checked: false
  - kind: select
    target: Mods/Zelda/FPS++
  - kind: key_down
    key: space
  - kind: key_up
    key: space
  - expect: Mods/Zelda/FPS++
    checked: true
  - expect: Mods/Zelda/Bloom
    checked: true
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), b, s)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Steps)
}

func TestRun_StopsAtFailedExpectation(t *testing.T) {
	b := newBrowser(t)
	s, err := Parse([]byte(`
steps:
  - expect: Mods/Zelda/FPS++
    checked: true
  - kind: toggle
    target: Mods/Zelda/FPS++
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), b, s)
	assert.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 1")
	assert.Zero(t, res.Steps)
}

func TestRun_HiddenTarget(t *testing.T) {
	b := newBrowser(t)
	s := &Script{Steps: []Step{{Kind: "left_down", Target: "Mods/Zelda/FPS++"}}}

	_, err := Run(context.Background(), b, s)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, newBrowser(t), &Script{Steps: []Step{{Kind: "focus_set"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func mustNode(t *testing.T, b *checktree.Browser, path string) domain.NodeID {
	t.Helper()
	id, err := b.NodeFor(path)
	require.NoError(t, err)
	return id
}
