// Package observability wires OpenTelemetry tracing for prism. Spans cover
// source loads and table operations; the exporter writes to stdout, which is
// all a local CLI needs. Metrics live in pkg/metrics on Prometheus and are
// not duplicated here.
package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ajitpratap0/prism/pkg/errors"
)

// Config controls tracer initialization.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRate   float64
	BatchTimeout   time.Duration
	PrettyPrint    bool
}

// DefaultConfig samples every span and pretty-prints, which suits short
// CLI runs where trace volume is tiny.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "prism",
		ServiceVersion: "dev",
		Environment:    "development",
		SamplingRate:   1.0,
		BatchTimeout:   time.Second,
		PrettyPrint:    true,
	}
}

var (
	tracer   trace.Tracer = noop.NewTracerProvider().Tracer("prism")
	initOnce sync.Once
)

// Init sets up the global tracer provider. Safe to call more than once;
// only the first call takes effect.
func Init(cfg Config) error {
	var err error
	initOnce.Do(func() {
		err = initTracing(cfg)
	})
	return err
}

func initTracing(cfg Config) error {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create trace resource")
	}

	var opts []stdouttrace.Option
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create stdout exporter")
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SamplingRate <= 0:
		sampler = sdktrace.NeverSample()
	case cfg.SamplingRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
		),
	)
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(cfg.ServiceName)
	return nil
}

// Shutdown flushes pending spans and stops the provider.
func Shutdown(ctx context.Context) error {
	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	if !ok {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to shut down tracer")
	}
	return nil
}

// Tracer returns the global tracer. Before Init it is a noop tracer, so
// library code can trace unconditionally.
func Tracer() trace.Tracer {
	return tracer
}

// Span wraps an OTel span and batches attributes until End.
type Span struct {
	span  trace.Span
	attrs []attribute.KeyValue
}

// StartSpan opens a span for the named operation.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	ctx, sp := tracer.Start(ctx, operation)
	return ctx, &Span{span: sp}
}

// SetAttribute queues an attribute. Values outside the common scalar types
// are stringified.
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue
	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}
	s.attrs = append(s.attrs, attr)
}

// RecordError marks the span failed and records err as a span event.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End flushes queued attributes and closes the span.
func (s *Span) End() {
	if len(s.attrs) > 0 {
		s.span.SetAttributes(s.attrs...)
	}
	s.span.End()
}

// Trace runs fn inside a span and records its error, saving call sites the
// start/defer/record dance.
func Trace(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, sp := StartSpan(ctx, operation)
	defer sp.End()

	err := fn(ctx)
	if err != nil {
		sp.RecordError(err)
	} else {
		sp.span.SetStatus(codes.Ok, "")
	}
	return err
}
