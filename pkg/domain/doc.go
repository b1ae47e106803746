/*
Package domain contains the core models of the checktree state machine.

It defines the values the machine reasons about and the notifications it raises.
The package is pure: no I/O, no persistence and no dependency on any tree widget.

# Key Entities

  - CheckState: the committed Base (checked/unchecked) plus a transient Overlay
    (resting, mouse-over, pressed-down, disabled).
  - NodeID: an opaque handle into a tree owned by someone else.
  - InputEvent: a keyboard, pointer or focus event routed to the machine.
  - ChoiceEvent: the notification raised when a toggle is committed.
  - Pack: a graphic pack entry shown as a checkable leaf by the browser.
*/
package domain
