package domain

import "errors"

// ErrSnapshotNotFound is returned when a snapshot name cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrNodeNotFound is returned by adapters when a node handle does not resolve.
var ErrNodeNotFound = errors.New("node not found")

// ErrPackNotFound is returned when a pack path is unknown to the browser.
var ErrPackNotFound = errors.New("pack not found")

// ErrUnknownEvent is returned when an event kind has no handler in the dispatch table.
var ErrUnknownEvent = errors.New("unknown event kind")

// ErrNodeDisabled is returned when a change is requested on a disabled checkbox.
var ErrNodeDisabled = errors.New("node is disabled")

// ErrNotCommitted is returned when a synthetic click did not change a checkbox.
var ErrNotCommitted = errors.New("click did not toggle the checkbox")

// ErrPresetNotFound is returned when a pack has no preset of the requested name.
var ErrPresetNotFound = errors.New("preset not found")
