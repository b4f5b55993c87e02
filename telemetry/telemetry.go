// Package telemetry provides hierarchical timing collection for pipeline
// steps. Collectors travel through context so instrumentation stays
// non-intrusive: when no collector is installed, timing calls are no-ops.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx = telemetry.WithCollector(ctx, collector)
//
//	timer := telemetry.FromContext(ctx).Start("close 2024-12")
//	step := timer.Child("reconciliation")
//	// ... work ...
//	step.End()
//	timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

// Collector collects operation timings.
type Collector interface {
	// Start begins timing an operation; end it with Timer.End.
	Start(name string) Timer

	// Report writes the collected timings.
	Report(w io.Writer)
}

// Timer tracks a single operation and supports nesting via Child.
type Timer interface {
	End()
	Child(name string) Timer
}

type contextKey struct{}

var collectorKey = contextKey{}

// WithCollector installs a collector into a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from a context, or a no-op collector if
// none is installed.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

type noOpCollector struct{}

func (noOpCollector) Start(string) Timer { return noOpTimer{} }
func (noOpCollector) Report(io.Writer)   {}

type noOpTimer struct{}

func (noOpTimer) End()               {}
func (noOpTimer) Child(string) Timer { return noOpTimer{} }
