// Package telemetry reports named operation events with numeric measures.
package telemetry

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Event is a named operation outcome.
type Event struct {
	Name     string
	Measures map[string]int
	// Internal events are always reported but kept out of default aggregate
	// reporting; the slog reporter logs them at debug level.
	Internal bool
}

// Reporter receives events.
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// SlogReporter writes events to a structured logger.
type SlogReporter struct {
	Logger *slog.Logger
}

// NewSlogReporter returns a reporter backed by logger.
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	return &SlogReporter{Logger: logger}
}

func (r *SlogReporter) Report(ctx context.Context, ev Event) {
	level := slog.LevelInfo
	if ev.Internal {
		level = slog.LevelDebug
	}

	keys := make([]string, 0, len(ev.Measures))
	for k := range ev.Measures {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Int(k, ev.Measures[k]))
	}

	r.Logger.Log(ctx, level, "telemetry",
		slog.String("event", ev.Name),
		slog.Group("measures", attrs...),
	)
}

// Recorder keeps every reported event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Report(_ context.Context, ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Discard drops every event.
type Discard struct{}

func (Discard) Report(context.Context, Event) {}
