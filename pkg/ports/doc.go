/*
Package ports defines the driven ports (interfaces) of checktree.

These interfaces keep the state machine independent from the widget that owns the
tree, from where packs come from and from where selections are persisted.

# Key Interfaces

  - Tree: the hierarchical tree the machine operates on (state slots, hit testing,
    colours, selection, hierarchy).
  - PackLoader: lists graphic packs (e.g. from Loam or Memory).
  - SnapshotStore: persists which packs are enabled.
*/
package ports
