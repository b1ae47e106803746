// Package tui is a terminal front-end for the pack browser.
//
// Terminal input is translated into the events a desktop toolkit would send:
// the terminal reports no key releases, no enter/leave and no double clicks,
// so the model synthesises them from key presses, the tree's bounds and press timing.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DoubleClickInterval is the longest gap between two presses on the same cell
// that still counts as a double click.
const DoubleClickInterval = 400 * time.Millisecond

const (
	headerLines = 1
	detailLines = 8
	footerLines = 1
)

// Browser is the part of checktree.Browser the model drives.
type Browser interface {
	Rows() []checktree.Node
	Node(id domain.NodeID) (checktree.Node, error)
	Dispatch(ctx context.Context, ev domain.InputEvent) (bool, error)
	Select(ctx context.Context, id domain.NodeID) error
	Expand(id domain.NodeID, expand bool) error
	SetEnabled(id domain.NodeID, enable bool) error
	SetFilter(filter string)
	Filter() string
	Reload(ctx context.Context, filter string) error
	Layout() memory.Layout
}

// ReloadMsg asks the model to reload the packs, e.g. after a file changed.
type ReloadMsg struct {
	Source string
}

// Option configures the model.
type Option func(*Model)

// WithRenderer sets the markdown renderer for the detail panel.
func WithRenderer(r Renderer) Option {
	return func(m *Model) {
		m.render = r
	}
}

// WithClock replaces time.Now for double click detection.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	browser Browser
	render  Renderer
	now     func() time.Time
	title   string

	width, height int
	offset        int

	inside      bool
	leftDown    bool
	lastPress   time.Time
	lastPressAt domain.Point

	filtering   bool
	filterInput string

	status string
	err    error
}

// New creates the model. ctx is passed to every dispatch.
func New(ctx context.Context, b Browser, opts ...Option) Model {
	m := Model{
		ctx:     ctx,
		browser: b,
		render:  PlainRenderer,
		now:     time.Now,
		title:   "Graphic packs",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.FocusMsg:
		m.dispatch(domain.InputEvent{Kind: domain.EventFocusSet})

	case tea.BlurMsg:
		m.dispatch(domain.InputEvent{Kind: domain.EventFocusLost})

	case ReloadMsg:
		if err := m.browser.Reload(m.ctx, m.browser.Filter()); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.status = fmt.Sprintf("reloaded (%s)", msg.Source)
		}
		m.clampOffset()
	}
	return m, nil
}

func (m *Model) dispatch(ev domain.InputEvent) bool {
	skip, err := m.browser.Dispatch(m.ctx, ev)
	if err != nil {
		m.err = err
	}
	return skip
}

// treeHeight is the number of rows the tree area shows.
func (m Model) treeHeight() int {
	if m.height == 0 {
		return math.MaxInt32
	}
	return max(1, m.height-headerLines-detailLines-footerLines)
}

func (m *Model) clampOffset() {
	rows := len(m.browser.Rows())
	m.offset = min(m.offset, max(0, rows-m.treeHeight()))
	m.offset = max(m.offset, 0)
}

// inTree reports whether a screen cell lies over the tree area.
func (m Model) inTree(x, y int) bool {
	if x < 0 || (m.width > 0 && x >= m.width) {
		return false
	}
	return y >= headerLines && y-headerLines < m.treeHeight()
}

// treePoint converts a screen cell into tree coordinates.
func (m Model) treePoint(x, y int) domain.Point {
	return domain.Point{X: x, Y: y - headerLines + m.offset}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	inside := m.inTree(msg.X, msg.Y)
	p := m.treePoint(msg.X, msg.Y)

	if msg.Action == tea.MouseActionMotion {
		// Motion reports the held button, so drags that start outside the tree count.
		m.leftDown = msg.Button == tea.MouseButtonLeft
	}

	switch {
	case inside && !m.inside:
		m.dispatch(domain.InputEvent{Kind: domain.EventMouseEnter, Pos: p, LeftDown: m.leftDown})
	case !inside && m.inside:
		m.dispatch(domain.InputEvent{Kind: domain.EventMouseLeave, Pos: p, LeftDown: m.leftDown})
	}
	m.inside = inside

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if inside {
				m.dispatch(domain.InputEvent{Kind: domain.EventWheel, Pos: p})
				m.offset--
				m.clampOffset()
			}
		case tea.MouseButtonWheelDown:
			if inside {
				m.dispatch(domain.InputEvent{Kind: domain.EventWheel, Pos: p})
				m.offset++
				m.clampOffset()
			}
		case tea.MouseButtonLeft:
			m.leftDown = true
			if !inside {
				return
			}
			kind := domain.EventLeftDown
			now := m.now()
			if !m.lastPress.IsZero() && now.Sub(m.lastPress) <= DoubleClickInterval && p == m.lastPressAt {
				kind = domain.EventLeftDClick
				m.lastPress = time.Time{}
			} else {
				m.lastPress = now
				m.lastPressAt = p
			}
			if m.dispatch(domain.InputEvent{Kind: kind, Pos: p, LeftDown: true}) {
				m.selectAt(p)
			}
		}

	case tea.MouseActionRelease:
		if !m.leftDown {
			return
		}
		m.leftDown = false
		m.dispatch(domain.InputEvent{Kind: domain.EventLeftUp, Pos: p})

	case tea.MouseActionMotion:
		if !inside && !m.leftDown {
			return
		}
		m.dispatch(domain.InputEvent{Kind: domain.EventMotion, Pos: p, LeftDown: m.leftDown})
	}
}

// selectAt runs the default handling of a press on a row: selecting it.
func (m *Model) selectAt(p domain.Point) {
	rows := m.browser.Rows()
	if p.Y < 0 || p.Y >= len(rows) {
		return
	}
	if err := m.browser.Select(m.ctx, rows[p.Y].ID); err != nil {
		m.err = err
	}
}

// press sends a key press followed by its release; terminals report no releases.
func (m *Model) press(k domain.Key) {
	m.dispatch(domain.InputEvent{Kind: domain.EventKeyDown, Key: k})
	m.dispatch(domain.InputEvent{Kind: domain.EventKeyUp, Key: k})
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.filtering {
		m.handleFilterKey(msg)
		return nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeySpace:
		m.press(domain.KeySpace)
	case tea.KeyEsc:
		m.press(domain.KeyEscape)
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyLeft:
		m.expandSelected(false)
	case tea.KeyRight:
		m.expandSelected(true)
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return tea.Quit
		case "d":
			m.toggleEnabled()
		case "/":
			m.filtering = true
			m.filterInput = m.browser.Filter()
		default:
			m.dispatch(domain.InputEvent{Kind: domain.EventKeyDown})
			m.dispatch(domain.InputEvent{Kind: domain.EventChar})
		}
	}
	return nil
}

func (m *Model) selected() (int, []checktree.Node) {
	rows := m.browser.Rows()
	for i, r := range rows {
		if r.Selected {
			return i, rows
		}
	}
	return -1, rows
}

// move walks the selection like arrow keys in a tree control.
func (m *Model) move(delta int) {
	m.dispatch(domain.InputEvent{Kind: domain.EventKeyDown})
	if !m.dispatch(domain.InputEvent{Kind: domain.EventChar}) {
		// the first row was just selected
		m.scrollToSelection()
		return
	}
	i, rows := m.selected()
	if i < 0 || len(rows) == 0 {
		return
	}
	next := min(max(i+delta, 0), len(rows)-1)
	if next == i {
		return
	}
	if err := m.browser.Select(m.ctx, rows[next].ID); err != nil {
		m.err = err
	}
	m.scrollToSelection()
}

func (m *Model) scrollToSelection() {
	i, _ := m.selected()
	if i < 0 {
		return
	}
	h := m.treeHeight()
	switch {
	case i < m.offset:
		m.offset = i
	case i >= m.offset+h:
		m.offset = i - h + 1
	}
}

func (m *Model) expandSelected(expand bool) {
	i, rows := m.selected()
	if i < 0 || !rows[i].HasChildren {
		return
	}
	if err := m.browser.Expand(rows[i].ID, expand); err != nil {
		m.err = err
	}
	m.clampOffset()
}

func (m *Model) toggleEnabled() {
	i, rows := m.selected()
	if i < 0 || !rows[i].Checkable || rows[i].State == nil {
		return
	}
	r := rows[i]
	enable := r.State.IsDisabled()
	if err := m.browser.SetEnabled(r.ID, enable); err != nil {
		m.err = err
		return
	}
	m.err = nil
	if enable {
		m.status = "enabled " + r.Text
	} else {
		m.status = "disabled " + r.Text
	}
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.browser.SetFilter(m.filterInput)
		m.offset = 0
	case tea.KeyEsc, tea.KeyCtrlC:
		m.filtering = false
	case tea.KeyBackspace:
		if r := []rune(m.filterInput); len(r) > 0 {
			m.filterInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.filterInput += " "
	case tea.KeyRunes:
		m.filterInput += string(msg.Runes)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render(m.title)
	switch {
	case m.filtering:
		header += "  " + filterStyle.Render("/"+m.filterInput+"_")
	case m.browser.Filter() != "":
		header += "  " + filterStyle.Render("filter: "+m.browser.Filter())
	}
	b.WriteString(header)
	b.WriteString("\n")

	rows := m.browser.Rows()
	layout := m.browser.Layout()
	end := min(len(rows), m.offset+m.treeHeight())
	var selected *checktree.Node
	for i := m.offset; i < end; i++ {
		b.WriteString(RenderRow(rows[i], layout))
		b.WriteString("\n")
	}
	for i := range rows {
		if rows[i].Selected {
			selected = &rows[i]
		}
	}
	if m.height > 0 {
		for i := end - m.offset; i < m.treeHeight(); i++ {
			b.WriteString("\n")
		}
	}

	b.WriteString(m.detail(selected))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(helpStyle.Render(m.status))
	default:
		b.WriteString(helpStyle.Render("space toggle · ←/→ fold · d enable/disable · / filter · q quit"))
	}
	return b.String()
}

func (m Model) detail(n *checktree.Node) string {
	width := 40
	if m.width > 4 {
		width = m.width - 4
	}
	style := panelStyle.Width(width).Height(detailLines - 2).MaxHeight(detailLines)

	if n == nil || n.Pack == nil {
		return style.Render(helpStyle.Render("select a pack to see its description"))
	}
	out, err := m.render(Describe(*n.Pack))
	if err != nil {
		out = Describe(*n.Pack)
	}
	return style.Render(strings.TrimSpace(lipgloss.NewStyle().MaxWidth(width).Render(out)))
}
