package cli

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/checktree/internal/presentation/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardChanges_FoldsBursts(t *testing.T) {
	old := SettleDelay
	SettleDelay = 20 * time.Millisecond
	defer func() { SettleDelay = old }()

	changes := make(chan string, 3)
	got := make(chan tea.Msg, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		ForwardChanges(ctx, changes, func(m tea.Msg) { got <- m })
		close(done)
	}()

	changes <- "a.md"
	changes <- "b.md"
	changes <- "c.md"

	select {
	case m := <-got:
		assert.Equal(t, tui.ReloadMsg{Source: "c.md"}, m)
	case <-time.After(time.Second):
		t.Fatal("no reload")
	}

	close(changes)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("did not stop")
	}
	assert.Empty(t, got)
}

func TestForwardChanges_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ForwardChanges(ctx, make(chan string), func(tea.Msg) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "did not stop")
	}
}
