package cli

import (
	"context"
	"time"

	"github.com/aretw0/checktree/internal/presentation/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// SettleDelay lets a burst of file writes finish before the packs are reloaded.
var SettleDelay = 100 * time.Millisecond

// ForwardChanges turns source change notifications into tui.ReloadMsg.
// Changes arriving during the settle delay are folded into one reload.
// It returns when ctx is done or changes is closed.
func ForwardChanges(ctx context.Context, changes <-chan string, send func(tea.Msg)) {
	for {
		var source string
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-changes:
			if !ok {
				return
			}
			source = ev
		}

		timer := time.NewTimer(SettleDelay)
	settle:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case ev, ok := <-changes:
				if !ok {
					timer.Stop()
					send(tui.ReloadMsg{Source: source})
					return
				}
				source = ev
			case <-timer.C:
				break settle
			}
		}
		send(tui.ReloadMsg{Source: source})
	}
}
