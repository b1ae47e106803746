/*
Package observability counts and logs what happens in a checkable tree.

Metrics exposes Prometheus counters for committed choices, keyboard focus and
dispatched events on a private registry. LoggingHooks reports the same events
through slog. Both are plain domain.Hooks and can be merged.
*/
package observability
