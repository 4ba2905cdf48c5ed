package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry is one recorded log record.
type LogEntry struct {
	Attrs   map[string]any
	Message string
	Level   slog.Level
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogRecorder is a slog.Handler that keeps every record in memory.
type LogRecorder struct {
	store *logStore
	attrs []slog.Attr
}

// NewLogRecorder creates an empty recorder accepting every level.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{store: &logStore{}}
}

// Logger returns a logger writing to the recorder.
func (r *LogRecorder) Logger() *slog.Logger {
	return slog.New(r)
}

// Enabled implements slog.Handler.
func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	e := LogEntry{Level: rec.Level, Message: rec.Message, Attrs: make(map[string]any)}
	for _, a := range r.attrs {
		e.Attrs[a.Key] = a.Value.Resolve().Any()
	}
	rec.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = append(r.store.entries, e)
	return nil
}

// WithAttrs implements slog.Handler.
func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogRecorder{store: r.store, attrs: append(append([]slog.Attr(nil), r.attrs...), attrs...)}
}

// WithGroup implements slog.Handler. Groups are ignored.
func (r *LogRecorder) WithGroup(string) slog.Handler {
	return r
}

// Entries returns a copy of every recorded entry.
func (r *LogRecorder) Entries() []LogEntry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]LogEntry(nil), r.store.entries...)
}

// Messages returns the messages recorded at exactly level.
func (r *LogRecorder) Messages(level slog.Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Warnings returns the warning messages.
func (r *LogRecorder) Warnings() []string { return r.Messages(slog.LevelWarn) }

// Errors returns the error messages.
func (r *LogRecorder) Errors() []string { return r.Messages(slog.LevelError) }

// Infos returns the informational messages.
func (r *LogRecorder) Infos() []string { return r.Messages(slog.LevelInfo) }

// Reset drops recorded entries.
func (r *LogRecorder) Reset() {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = nil
}
