// Package logging builds the slog loggers used across the game.
//
// Packages accept a *slog.Logger and treat nil as "discard", so tests and
// tools can leave logging off without a special case at every call site.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w at the given minimum level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
