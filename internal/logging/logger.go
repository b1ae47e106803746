// Package logging builds the slog loggers shared by the commands and adapters.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Log encodings accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to stderr, so stdout stays free for the tree,
// JSON output and JSON-RPC.
func New(level slog.Level, format string) *slog.Logger {
	return NewTo(os.Stderr, level, format)
}

// NewTo returns a logger writing to w. Any format other than FormatJSON is text.
// The "error" key is shortened to "err".
func NewTo(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// NewNop returns a logger that drops everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
