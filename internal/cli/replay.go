package cli

import (
	"context"
	"io"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/script"
)

// Replay runs a script file against b and reports progress to w.
func Replay(ctx context.Context, b *checktree.Browser, path string, w io.Writer) (script.Result, error) {
	s, err := script.Load(path)
	if err != nil {
		return script.Result{}, err
	}
	name := s.Name
	if name == "" {
		name = path
	}
	PrintSystemMessage(w, "Replaying '%s' (%d steps).", name, len(s.Steps))

	res, err := script.Run(ctx, b, s)
	if err != nil {
		PrintSystemMessage(w, "Stopped after %d steps.", res.Steps)
		return res, err
	}
	PrintSystemMessage(w, "Finished: %d steps, %d passed on to default handling.", res.Steps, res.Skipped)
	return res, nil
}
