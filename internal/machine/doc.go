/*
Package machine implements the checkable tree state machine.

A Machine layers tri-state checkboxes on top of a ports.Tree. Each checkable node
carries a committed Base (checked or unchecked) and a transient Overlay driven by
keyboard, pointer and focus events. Only two transitions commit: releasing Space
on the keyboard-focused node and releasing the primary button on the same
checkbox that was pressed. Every commit flips the Base and raises exactly one
domain.ChoiceEvent carrying the new value. Everything else only moves highlights.

The machine is single-threaded. It must be driven from one goroutine (the UI
loop); it holds no locks.
*/
package machine
