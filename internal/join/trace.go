package join

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/treesimjoin/simjoin/pkg/utils"
)

// tracer names every span opened by a join/lookup driver.
var tracer = otel.Tracer("github.com/treesimjoin/simjoin/internal/join")

// startInvocation opens the one span every driver invocation carries
// (spec.md's per-call span) and returns the derived context plus the
// func that ends it. Safe to call whether or not telemetry is enabled:
// with no TracerProvider configured, otel's default no-op tracer makes
// every span and its End() free.
func startInvocation(ctx context.Context, driver string) (context.Context, func()) {
	ctx, span := tracer.Start(ctx, driver)
	return ctx, func() { span.End() }
}

// startPhase opens a child span for one pipeline stage (convert,
// candidate-gen, ub-shortcut, verify) and times the same stage on c's
// Timer, so the OTEL span and the in-process phase breakdown always
// agree on stage boundaries.
func (c *Counters) startPhase(ctx context.Context, name string) func() {
	_, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	pt := c.timer().Start(name)
	return func() {
		pt.Stop()
		span.End()
	}
}

// timer lazily creates the driver's phase timer on first use.
func (c *Counters) timer() *utils.Timer {
	if c.phaseTimer == nil {
		c.phaseTimer = utils.NewTimer("join")
	}
	return c.phaseTimer
}

// GetTimer returns the driver's phase timer, or nil if no phase ran.
func (c *Counters) GetTimer() *utils.Timer { return c.phaseTimer }
