// Package script replays recorded input against a browser.
//
// A script is a YAML (or JSON) document:
//
//	name: toggle fps
//	steps:
//	  - kind: left_down
//	    target: Mods/Zelda/FPS++
//	  - kind: left_up
//	    target: Mods/Zelda/FPS++
//	  - kind: key_down
//	    key: space
//	  - expect: Mods/Zelda/FPS++
//	    checked: false
//
// Steps are decoded with mapstructure so numbers written as strings are accepted
// and unknown keys are rejected.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Pseudo kinds that act on the browser instead of the machine.
const (
	KindSelect = "select"
	KindToggle = "toggle"
)

// ErrExpectation is returned when an expect step does not hold.
var ErrExpectation = errors.New("expectation failed")

// Step is one line of a script.
type Step struct {
	Kind string `mapstructure:"kind"`
	Key  string `mapstructure:"key"`
	X    *int   `mapstructure:"x"`
	Y    *int   `mapstructure:"y"`
	// Target is a pack path; the event lands on Part of its row.
	Target string `mapstructure:"target"`
	// Part is label, icon (default) or button.
	Part string `mapstructure:"part"`
	// Button "left" marks the primary button as held during the event.
	Button string `mapstructure:"button"`
	Item   string `mapstructure:"item"`

	// Expect names a pack whose checkbox is compared against Checked.
	Expect  string `mapstructure:"expect"`
	Checked *bool  `mapstructure:"checked"`
}

// Script is a named list of steps.
type Script struct {
	Name  string `mapstructure:"name"`
	Steps []Step `mapstructure:"steps"`
}

// Parse decodes a script document.
func Parse(data []byte) (*Script, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	var s Script
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}

	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

func (st Step) validate() error {
	if st.Expect != "" {
		if st.Kind != "" {
			return errors.New("expect steps take no kind")
		}
		if st.Checked == nil {
			return errors.New("expect needs checked")
		}
		return nil
	}
	switch st.Kind {
	case "":
		return errors.New("kind is required")
	case KindSelect, KindToggle:
		if st.Target == "" {
			return fmt.Errorf("%s needs a target", st.Kind)
		}
		return nil
	}
	if !knownKind(domain.EventKind(st.Kind)) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownEvent, st.Kind)
	}
	if (st.X == nil) != (st.Y == nil) {
		return errors.New("x and y go together")
	}
	if st.X != nil && st.Target != "" {
		return errors.New("use either x/y or target")
	}
	if _, err := parsePart(st.Part); err != nil {
		return err
	}
	switch st.Button {
	case "", "none", "left":
	default:
		return fmt.Errorf("unknown button %q", st.Button)
	}
	return nil
}

func knownKind(k domain.EventKind) bool {
	switch k {
	case domain.EventKeyDown, domain.EventKeyUp, domain.EventChar,
		domain.EventMouseEnter, domain.EventMouseLeave,
		domain.EventLeftDown, domain.EventLeftUp, domain.EventLeftDClick,
		domain.EventMotion, domain.EventWheel,
		domain.EventFocusSet, domain.EventFocusLost, domain.EventSelChanging:
		return true
	}
	return false
}

func parsePart(s string) (memory.Part, error) {
	switch strings.ToLower(s) {
	case "", "icon":
		return memory.PartIcon, nil
	case "label":
		return memory.PartLabel, nil
	case "button":
		return memory.PartButton, nil
	}
	return 0, fmt.Errorf("unknown part %q", s)
}

// Browser is what a script drives.
type Browser interface {
	NodeFor(path string) (domain.NodeID, error)
	Node(id domain.NodeID) (checktree.Node, error)
	PointOf(id domain.NodeID, part memory.Part) (domain.Point, bool)
	Dispatch(ctx context.Context, ev domain.InputEvent) (bool, error)
	Select(ctx context.Context, id domain.NodeID) error
	Toggle(ctx context.Context, id domain.NodeID) error
}

// Event converts an input step into the event it dispatches.
// Targets are resolved against the rows visible at that moment.
func (st Step) Event(b Browser) (domain.InputEvent, error) {
	ev := domain.InputEvent{
		Kind:     domain.EventKind(st.Kind),
		Key:      domain.Key(strings.ToLower(st.Key)),
		LeftDown: st.Button == "left" || st.Kind == string(domain.EventLeftDown),
		Item:     domain.NodeID(st.Item),
	}
	switch {
	case st.X != nil:
		ev.Pos = domain.Point{X: *st.X, Y: *st.Y}
	case st.Target != "":
		id, err := b.NodeFor(st.Target)
		if err != nil {
			return ev, err
		}
		part, _ := parsePart(st.Part)
		p, ok := b.PointOf(id, part)
		if !ok {
			return ev, fmt.Errorf("%w: %s is not visible", domain.ErrNodeNotFound, st.Target)
		}
		ev.Pos = p
		if ev.Kind == domain.EventSelChanging && ev.Item.IsZero() {
			ev.Item = id
		}
	}
	return ev, nil
}

// Result records what a run did.
type Result struct {
	Steps int
	// Skipped counts events the machine passed on to default handling.
	Skipped int
}

// Run executes every step in order and stops at the first error.
func Run(ctx context.Context, b Browser, s *Script) (Result, error) {
	var res Result
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		skip, err := runStep(ctx, b, st)
		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, st.describe(), err)
		}
		res.Steps++
		if skip {
			res.Skipped++
		}
	}
	return res, nil
}

func runStep(ctx context.Context, b Browser, st Step) (bool, error) {
	if st.Expect != "" {
		return false, expect(b, st)
	}
	switch st.Kind {
	case KindSelect, KindToggle:
		id, err := b.NodeFor(st.Target)
		if err != nil {
			return false, err
		}
		if st.Kind == KindSelect {
			return false, b.Select(ctx, id)
		}
		return false, b.Toggle(ctx, id)
	}
	ev, err := st.Event(b)
	if err != nil {
		return false, err
	}
	return b.Dispatch(ctx, ev)
}

func expect(b Browser, st Step) error {
	id, err := b.NodeFor(st.Expect)
	if err != nil {
		return err
	}
	n, err := b.Node(id)
	if err != nil {
		return err
	}
	if n.State == nil {
		return fmt.Errorf("%w: %s has no checkbox", ErrExpectation, st.Expect)
	}
	if got := n.State.IsChecked(); got != *st.Checked {
		return fmt.Errorf("%w: %s checked=%t, want %t", ErrExpectation, st.Expect, got, *st.Checked)
	}
	return nil
}

func (st Step) describe() string {
	if st.Expect != "" {
		return "expect " + st.Expect
	}
	if st.Target != "" {
		return st.Kind + " " + st.Target
	}
	return st.Kind
}
