package telemetry

import (
	"context"
	"time"

	"github.com/AnatoleLucet/signalctx/internal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the reactive graph.
const defaultTracerName = "signalctx"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "signalctx").
	TracerName string

	// TracerProvider resolves the tracer.
	// Default: the global provider.
	TracerProvider trace.TracerProvider

	// Context is the parent of every outermost transaction span.
	// Default: context.Background()
	Context context.Context

	// RecordRuns adds one span event per computation run.
	// Disabled by default.
	RecordRuns bool
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider the tracer is taken from.
func WithTracerProvider(provider trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.TracerProvider = provider
	}
}

// WithParentContext sets the context outermost transaction spans start from.
func WithParentContext(ctx context.Context) TracingOption {
	return func(c *TracingConfig) {
		c.Context = ctx
	}
}

// WithRecordRuns enables one span event per computation run.
func WithRecordRuns(record bool) TracingOption {
	return func(c *TracingConfig) {
		c.RecordRuns = record
	}
}

func defaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Tracing is an observer that opens one span per transaction. Transactions
// started while another is open (the effect tier drain) become child spans.
type Tracing struct {
	tracer     trace.Tracer
	parent     context.Context
	recordRuns bool
	stack      []*txSpan
}

type txSpan struct {
	ctx      context.Context
	span     trace.Span
	enqueued int
	runs     int
	failures int
}

var _ internal.Observer = (*Tracing)(nil)

// OpenTelemetry creates a tracing observer. Like the graph it observes, it
// must not be shared between goroutines.
func OpenTelemetry(opts ...TracingOption) *Tracing {
	config := defaultTracingConfig()
	for _, opt := range opts {
		opt(&config)
	}

	provider := config.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	parent := config.Context
	if parent == nil {
		parent = context.Background()
	}

	return &Tracing{
		tracer:     provider.Tracer(config.TracerName),
		parent:     parent,
		recordRuns: config.RecordRuns,
	}
}

func (t *Tracing) top() *txSpan {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

func (t *Tracing) TransactionStarted(tx uint64) {
	parent := t.parent
	if top := t.top(); top != nil {
		parent = top.ctx
	}

	ctx, span := t.tracer.Start(parent, "signalctx.transaction",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("signalctx.tx", int64(tx)),
			attribute.Int("signalctx.depth", len(t.stack)),
		),
	)
	t.stack = append(t.stack, &txSpan{ctx: ctx, span: span})
}

func (t *Tracing) TransactionCompleted(_ uint64, elapsed time.Duration) {
	top := t.top()
	if top == nil {
		return
	}
	t.stack = t.stack[:len(t.stack)-1]

	top.span.SetAttributes(
		attribute.Int("signalctx.enqueued", top.enqueued),
		attribute.Int("signalctx.runs", top.runs),
		attribute.Int64("signalctx.duration_us", elapsed.Microseconds()),
	)
	if top.failures > 0 {
		top.span.SetStatus(codes.Error, "computation failed")
	} else {
		top.span.SetStatus(codes.Ok, "")
	}
	top.span.End()
}

func (t *Tracing) ComputationEnqueued(internal.ScopeKind) {
	if top := t.top(); top != nil {
		top.enqueued++
	}
}

func (t *Tracing) ComputationInvoked(kind internal.ScopeKind, elapsed time.Duration, err error) {
	top := t.top()
	if top == nil {
		return
	}
	top.runs++

	if err != nil {
		top.failures++
		top.span.RecordError(err, trace.WithAttributes(attribute.String("signalctx.kind", kind.String())))
		return
	}
	if t.recordRuns {
		top.span.AddEvent("computation", trace.WithAttributes(
			attribute.String("signalctx.kind", kind.String()),
			attribute.Int64("signalctx.duration_us", elapsed.Microseconds()),
		))
	}
}
