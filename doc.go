/*
Package checktree is a tree of checkboxes driven by raw input events, built for
browsing and enabling emulator graphic packs.

Each checkable node carries one of eight states: unchecked or checked, shown
resting, hovered, pressed or disabled. A state machine turns keyboard, pointer
and focus events into those states the way a native checkbox would: a press
only highlights, the release on the same box commits, and a drag that started
outside the tree never toggles anything.

# Usage

	browser, err := checktree.New("./graphicPacks",
		checktree.WithStore(file.New("")),
		checktree.WithHooks(domain.Hooks{
			OnCheckChanged: func(ctx context.Context, ev *domain.ChoiceEvent) {
				log.Printf("%s -> %v", ev.Node, ev.Checked)
			},
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Feed events from any front-end.
	skip, err := browser.Dispatch(ctx, domain.InputEvent{Kind: domain.EventLeftDown, Pos: p, LeftDown: true})

Packs are read from Markdown documents with YAML front matter (see
pkg/adapters/loam). Committed choices update the pack and are saved to the
configured snapshot store under the session name.
*/
package checktree
