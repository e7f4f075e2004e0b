package certstore

import (
	"context"
	"log/slog"

	"github.com/princespaghetti/syscerts/internal/logging"
	"github.com/princespaghetti/syscerts/internal/platform"
	"github.com/princespaghetti/syscerts/internal/telemetry"
	"github.com/princespaghetti/syscerts/internal/trust"
)

// EventName is the telemetry event reported by every Certificates call.
const EventName = "certificates"

// Aggregator returns the union of the host trust store (read once per slot,
// then memoized process-wide) and the certificates found under the configured paths (read on
// every call).
type Aggregator struct {
	source   PathSource
	fs       FileSystem
	slot     *trust.Slot
	family   platform.Family
	readers  map[platform.Family]platform.Reader
	warner   Warner
	reporter telemetry.Reporter
	logger   *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFileSystem replaces the OS file system.
func WithFileSystem(fsys FileSystem) Option {
	return func(a *Aggregator) { a.fs = fsys }
}

// WithSlot replaces trust.Default as the slot readers install into.
func WithSlot(slot *trust.Slot) Option {
	return func(a *Aggregator) { a.slot = slot }
}

// WithFamily overrides the detected operating system family.
func WithFamily(f platform.Family) Option {
	return func(a *Aggregator) { a.family = f }
}

// WithReaders replaces the build's trust store readers.
func WithReaders(readers map[platform.Family]platform.Reader) Option {
	return func(a *Aggregator) { a.readers = readers }
}

// WithWarner sets the receiver of configuration warnings.
func WithWarner(w Warner) Option {
	return func(a *Aggregator) { a.warner = w }
}

// WithReporter sets the telemetry reporter.
func WithReporter(r telemetry.Reporter) Option {
	return func(a *Aggregator) { a.reporter = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// NewAggregator returns an Aggregator reading configured paths from source.
// A nil source behaves as if nothing were configured.
func NewAggregator(source PathSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:   source,
		fs:       &OSFileSystem{},
		slot:     trust.Default,
		family:   platform.Current(),
		readers:  platform.SystemReaders(),
		reporter: telemetry.Discard{},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.warner == nil {
		logger := a.logger
		a.warner = WarnFunc(func(err error) {
			logger.Warn("invalid certificate path", "error", err)
		})
	}
	return a
}

// Certificates returns system entries followed by path entries. It never
// fails: problems with individual sources shrink the result and surface as
// warnings, log records, and the reported counts.
func (a *Aggregator) Certificates(ctx context.Context) []trust.Entry {
	system := a.SystemCertificates(ctx)
	paths, _ := a.ConfiguredPaths()
	fromPaths := a.PathCertificates(ctx, paths)

	a.reporter.Report(ctx, telemetry.Event{
		Name: EventName,
		Measures: map[string]int{
			"system": len(system),
			"paths":  len(fromPaths),
		},
		Internal: true,
	})

	return append(system, fromPaths...)
}

// ConfiguredPaths returns the candidate certificate paths for this call.
// defaulted is true when nothing was configured and the platform default
// list was substituted.
func (a *Aggregator) ConfiguredPaths() (paths []string, defaulted bool) {
	if a.source != nil {
		if paths, ok := a.source.CertificatePaths(); ok {
			return paths, false
		}
	}
	return platform.DefaultCertPaths(a.family), true
}

// Family returns the operating system family the aggregator branches on.
func (a *Aggregator) Family() platform.Family {
	return a.family
}

// Reset drops the memoized system entries for the aggregator's slot so the
// next call, from any Aggregator sharing it, reads the trust store again.
func (a *Aggregator) Reset() {
	systemMu.Lock()
	delete(systemMemo, a.slot)
	systemMu.Unlock()
}
