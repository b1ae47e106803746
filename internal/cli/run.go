package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/presentation/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// RunOptions configures the interactive browser.
type RunOptions struct {
	// Watch reloads the packs whenever the directory changes.
	Watch bool
	// Inline keeps the TUI in the main screen buffer.
	Inline bool
	Input  io.Reader
	Output io.Writer
}

// Run shows the browser in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, b *checktree.Browser, opts RunOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	width := 80
	if f, ok := opts.Output.(*os.File); ok {
		width = TerminalWidth(f, width)
	}
	model := tui.New(ctx, b,
		tui.WithRenderer(tui.NewRenderer(max(20, width-8))),
		tui.WithTitle(fmt.Sprintf("checktree %s · %s", strings.TrimSpace(checktree.Version), b.Name)),
	)

	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(opts.Input),
		tea.WithOutput(opts.Output),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	}
	if !opts.Inline {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, progOpts...)

	if opts.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		changes, err := b.Watch(watchCtx)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", b.Name, err)
		}
		go ForwardChanges(watchCtx, changes, p.Send)
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// interrupted
		return nil
	}
	return err
}
