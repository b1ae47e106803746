package checktree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/checktree/internal/logging"
	"github.com/aretw0/checktree/internal/machine"
	"github.com/aretw0/checktree/internal/packs"
	loamAdapter "github.com/aretw0/checktree/pkg/adapters/loam"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/checktree/pkg/ports"
)

// DefaultSession is the snapshot name used when none is configured.
const DefaultSession = "default"

// Browser is the high-level entry point: a graphic-pack tree with checkboxes.
// It owns the tree, the state machine and the pack catalog, and serialises every
// call onto them, so adapters may share one Browser across goroutines.
type Browser struct {
	mu sync.Mutex

	tree    *memory.Tree
	machine *machine.Machine
	builder *packs.Builder
	catalog *packs.Catalog

	loader    ports.PackLoader
	store     ports.SnapshotStore
	hooks     domain.Hooks
	dispatch  machine.DispatchTable
	logger    *slog.Logger
	filter    string
	session   string
	installed []uint64
	now       func() time.Time

	// saveErr collects snapshot failures raised inside hooks until the
	// surrounding call returns.
	saveErr error

	Name string
}

// Option defines a functional option for configuring the Browser.
type Option func(*Browser)

// WithLoader injects a custom PackLoader, bypassing the default Loam initialization.
func WithLoader(l ports.PackLoader) Option {
	return func(b *Browser) {
		b.loader = l
	}
}

// WithStore persists the enabled flags after every committed choice.
func WithStore(s ports.SnapshotStore) Option {
	return func(b *Browser) {
		b.store = s
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Browser) {
		b.logger = logger
	}
}

// WithHooks registers observers. They run after the Browser has recorded the change,
// while the Browser is locked: they must not call back into it.
func WithHooks(h domain.Hooks) Option {
	return func(b *Browser) {
		b.hooks = b.hooks.Merge(h)
	}
}

// WithFilter sets the initial filter.
func WithFilter(filter string) Option {
	return func(b *Browser) {
		b.filter = filter
	}
}

// WithSessionName sets the snapshot name (default: DefaultSession).
func WithSessionName(name string) Option {
	return func(b *Browser) {
		b.session = name
	}
}

// WithDispatch replaces the machine's dispatch table.
func WithDispatch(t machine.DispatchTable) Option {
	return func(b *Browser) {
		b.dispatch = t
	}
}

// WithInstalledTitles hides packs for titles that are not installed.
func WithInstalledTitles(ids []uint64) Option {
	return func(b *Browser) {
		b.installed = ids
	}
}

// WithClock replaces time.Now for snapshot and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Browser) {
		b.now = now
	}
}

// New creates a Browser and loads its packs.
// By default it reads a Loam repository at dir; with WithLoader, dir is only a label.
func New(dir string, opts ...Option) (*Browser, error) {
	b := &Browser{
		session: DefaultSession,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.loader == nil {
		if dir == "" {
			return nil, fmt.Errorf("dir is required when no custom loader is provided")
		}
		l, err := loamAdapter.Open(dir)
		if err != nil {
			return nil, err
		}
		b.loader = l
	}
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			b.Name = filepath.Base(abs)
		}
	}

	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.Name != "" {
		b.logger = b.logger.With("packs", b.Name)
	}

	b.tree = memory.NewTree(memory.WithHiddenRoot())
	mopts := []machine.Option{
		machine.WithLogger(b.logger),
		machine.WithClock(b.now),
		machine.WithHooks(domain.Hooks{OnCheckChanged: b.record}.Merge(b.hooks)),
	}
	if b.dispatch != nil {
		mopts = append(mopts, machine.WithDispatch(b.dispatch))
	}
	b.machine = machine.New(b.tree, mopts...)
	b.builder = packs.NewBuilder(
		packs.WithLogger(b.logger),
		packs.WithInstalledTitles(b.installed),
	)

	if err := b.Reload(context.Background(), b.filter); err != nil {
		return nil, err
	}
	return b, nil
}

// record is the machine's commit hook: the pack follows the checkbox and the
// snapshot is saved.
func (b *Browser) record(ctx context.Context, ev *domain.ChoiceEvent) {
	p, ok := b.catalog.Apply(*ev)
	if !ok {
		return
	}
	b.logger.Info("pack toggled", "path", p.Path, "enabled", p.Enabled)
	if err := b.save(ctx); err != nil {
		b.saveErr = errors.Join(b.saveErr, err)
	}
}

func (b *Browser) save(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	if err := b.store.Save(ctx, b.session, b.catalog.Snapshot(b.session, b.now())); err != nil {
		b.logger.Error("failed to save snapshot", "session", b.session, "err", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (b *Browser) takeSaveErr() error {
	err := b.saveErr
	b.saveErr = nil
	return err
}

// Reload lists the packs again and rebuilds the tree with filter.
// Choices made so far survive; on first load they come from the stored snapshot.
func (b *Browser) Reload(ctx context.Context, filter string) error {
	list, err := b.loader.ListPacks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load packs: %w", err)
	}
	catalog := packs.NewCatalog(list)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.catalog != nil {
		catalog.Restore(b.catalog.Snapshot(b.session, b.now()))
	} else if b.store != nil {
		snap, err := b.store.Load(ctx, b.session)
		switch {
		case err == nil:
			catalog.Restore(snap)
		case errors.Is(err, domain.ErrSnapshotNotFound):
		default:
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
	}

	b.catalog = catalog
	b.filter = filter
	b.builder.Build(b.tree, b.machine, b.catalog, filter)
	b.logger.Debug("packs loaded", "count", catalog.Len(), "filter", filter)
	return nil
}

// SetFilter rebuilds the tree from the loaded packs.
func (b *Browser) SetFilter(filter string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = filter
	b.builder.Build(b.tree, b.machine, b.catalog, filter)
}

// Filter returns the current filter.
func (b *Browser) Filter() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Dispatch feeds one input event to the state machine. skip reports whether
// a host widget should run its default handling too.
func (b *Browser) Dispatch(ctx context.Context, ev domain.InputEvent) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	skip, err := b.machine.Dispatch(ctx, ev)
	return skip, errors.Join(err, b.takeSaveErr())
}

// Toggle clicks the checkbox of a node: a press and a release on its icon.
// Collapsed ancestors are expanded first so the icon can be hit.
func (b *Browser) Toggle(ctx context.Context, id domain.NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.tree.ItemState(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	if st.IsDisabled() {
		return fmt.Errorf("%w: %s", domain.ErrNodeDisabled, id)
	}
	for a := b.tree.Parent(id); !a.IsZero(); a = b.tree.Parent(a) {
		b.tree.Expand(a)
	}
	p, ok := b.tree.PointOf(id, memory.PartIcon)
	if !ok {
		return fmt.Errorf("%w: %s is not visible", domain.ErrNodeNotFound, id)
	}

	for _, ev := range []domain.InputEvent{
		// A release above the tree ends any drag left open by earlier events.
		{Kind: domain.EventLeftUp, Pos: domain.Point{X: 0, Y: -1}},
		{Kind: domain.EventLeftDown, Pos: p, LeftDown: true},
		{Kind: domain.EventLeftUp, Pos: p},
	} {
		if _, err := b.machine.Dispatch(ctx, ev); err != nil {
			return errors.Join(err, b.takeSaveErr())
		}
	}
	if err := b.takeSaveErr(); err != nil {
		return err
	}
	if after, _ := b.tree.ItemState(id); after.IsChecked() == st.IsChecked() {
		return fmt.Errorf("%w: %s", domain.ErrNotCommitted, id)
	}
	return nil
}

// SetChecked sets a checkbox without the click gesture. Observers are not
// notified, but the pack and the snapshot are updated.
func (b *Browser) SetChecked(ctx context.Context, id domain.NodeID, checked bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.tree.ItemState(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	if st.IsDisabled() {
		return fmt.Errorf("%w: %s", domain.ErrNodeDisabled, id)
	}
	b.machine.Check(id, checked)
	if _, ok := b.catalog.Apply(domain.ChoiceEvent{Node: id, Checked: checked}); !ok {
		return nil
	}
	return b.save(ctx)
}

// SetPreset chooses a preset of the pack shown at id and saves the snapshot.
// The choice is kept whether or not the pack is enabled.
func (b *Browser) SetPreset(ctx context.Context, id domain.NodeID, category, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.catalog.PackFor(id)
	if !ok {
		return fmt.Errorf("%w: %s is not a pack", domain.ErrNodeNotFound, id)
	}
	if _, err := b.catalog.SetPreset(p.Path, category, name); err != nil {
		return err
	}
	b.logger.Info("preset chosen", "path", p.Path, "category", category, "preset", name)
	return b.save(ctx)
}

// SetEnabled enables or greys out a checkbox.
func (b *Browser) SetEnabled(id domain.NodeID, enable bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if enable {
		if p, ok := b.catalog.PackFor(id); ok && !p.Supported() {
			return fmt.Errorf("%w: version %d cannot be enabled", domain.ErrNodeDisabled, p.Version)
		}
	}
	if !b.machine.EnableCheckBox(id, enable) {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return nil
}

// SetFocusFromKeyboard restores the keyboard highlight after the tree regains focus.
func (b *Browser) SetFocusFromKeyboard(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.machine.SetFocusFromKeyboard(ctx)
}

// Node describes one tree node for adapters.
type Node struct {
	ID          domain.NodeID      `json:"id"`
	Text        string             `json:"text"`
	Colour      domain.Color       `json:"colour,omitempty"`
	Checkable   bool               `json:"checkable"`
	State       *domain.CheckState `json:"state,omitempty"`
	Selected    bool               `json:"selected,omitempty"`
	Expanded    bool               `json:"expanded,omitempty"`
	Depth       int                `json:"depth"`
	HasChildren bool               `json:"has_children,omitempty"`
	Pack        *domain.Pack       `json:"pack,omitempty"`
}

func (b *Browser) describe(r memory.Row) Node {
	n := Node{
		ID:          r.ID,
		Text:        r.Text,
		Colour:      r.Colour,
		Checkable:   r.Checkable,
		Selected:    r.Selected,
		Expanded:    r.Expanded,
		Depth:       r.Depth,
		HasChildren: r.HasChildren,
	}
	if r.Checkable {
		st := r.State
		n.State = &st
	}
	if p, ok := b.catalog.PackFor(r.ID); ok {
		n.Pack = &p
	}
	return n
}

// Rows returns the visible rows, top to bottom.
func (b *Browser) Rows() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows := b.tree.Rows()
	out := make([]Node, 0, len(rows))
	for _, r := range rows {
		out = append(out, b.describe(r))
	}
	return out
}

// Node returns a node whether or not it is visible.
func (b *Browser) Node(id domain.NodeID) (Node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.tree.Contains(id) {
		return Node{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	st, checkable := b.tree.ItemState(id)
	depth := -1
	for a := b.tree.Parent(id); !a.IsZero(); a = b.tree.Parent(a) {
		depth++
	}
	return b.describe(memory.Row{
		ID:          id,
		Depth:       depth,
		Text:        b.tree.ItemText(id),
		Colour:      b.tree.ItemTextColour(id),
		State:       st,
		Checkable:   checkable,
		HasChildren: b.tree.HasChildren(id),
		Expanded:    b.tree.IsExpanded(id),
		Selected:    b.tree.Selection() == id,
	}), nil
}

// NodeFor returns the node a pack path is shown at.
func (b *Browser) NodeFor(path string) (domain.NodeID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.catalog.NodeFor(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrPackNotFound, path)
	}
	return id, nil
}

// PointOf returns the position of part of a visible node.
func (b *Browser) PointOf(id domain.NodeID, part memory.Part) (domain.Point, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree.PointOf(id, part)
}

// Select moves the tree selection, as arrow keys would.
// The machine sees it as a selection change.
func (b *Browser) Select(ctx context.Context, id domain.NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.tree.Contains(id) {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	if _, err := b.machine.Dispatch(ctx, domain.InputEvent{Kind: domain.EventSelChanging, Item: id}); err != nil {
		return err
	}
	b.tree.SelectItem(id)
	return nil
}

// Expand shows or hides the children of a node.
func (b *Browser) Expand(id domain.NodeID, expand bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.tree.Contains(id) {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	if expand {
		b.tree.Expand(id)
	} else {
		b.tree.Collapse(id)
	}
	return nil
}

// Packs returns every loaded pack.
func (b *Browser) Packs() []domain.Pack {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.catalog.Packs()
}

// Snapshot returns the current enabled flags.
func (b *Browser) Snapshot() *domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.catalog.Snapshot(b.session, b.now())
}

// Cursors exposes the machine's interaction cursors.
func (b *Browser) Cursors() machine.Cursors {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.machine.Cursors()
}

// Layout returns the row geometry used for hit testing.
func (b *Browser) Layout() memory.Layout {
	return b.tree.Layout()
}

// Watch returns a channel that signals when the pack source changes.
// Returns error if the loader does not support watching.
func (b *Browser) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := b.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying PackLoader.
func (b *Browser) Loader() ports.PackLoader {
	return b.loader
}

// Tree and Machine give direct, unsynchronised access for single-goroutine hosts and tests.
func (b *Browser) Tree() *memory.Tree { return b.tree }

// Machine returns the underlying state machine. See Tree.
func (b *Browser) Machine() *machine.Machine { return b.machine }
