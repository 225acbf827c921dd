// Package telemetry provides OpenTelemetry tracing for the generator and the naming service.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Config selects whether and where spans are exported
type Config struct {
	Enabled bool
	// CollectorEndpoint is an OTLP/gRPC host:port
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
}

// TracerProvider owns the SDK provider, if one was installed. A disabled
// provider leaves the global no-op in place and every method is a no-op.
type TracerProvider struct {
	sdk    *sdktrace.TracerProvider
	cfg    Config
	logger *zap.Logger
}

// NewTracerProvider installs a global provider that batches spans to the
// collector over OTLP/gRPC. Nothing is installed when cfg.Enabled is false.
func NewTracerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*TracerProvider, error) {
	tp := newProvider(cfg, logger)
	if !cfg.Enabled {
		tp.logger.Debug("Tracing disabled")
		return tp, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP trace exporter: %w", err)
	}
	tp.install(sdktrace.WithBatcher(exporter))

	tp.logger.Info("Tracing enabled",
		zap.String("service", cfg.ServiceName),
		zap.String("collector", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
	)
	return tp, nil
}

// NewTracerProviderWithProcessor installs a provider that hands spans to
// processor synchronously, e.g. a tracetest.SpanRecorder
func NewTracerProviderWithProcessor(cfg Config, processor sdktrace.SpanProcessor, logger *zap.Logger) *TracerProvider {
	tp := newProvider(cfg, logger)
	tp.install(sdktrace.WithSpanProcessor(processor))
	return tp
}

func newProvider(cfg Config, logger *zap.Logger) *TracerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "dev"
	}
	return &TracerProvider{cfg: cfg, logger: logger}
}

func (tp *TracerProvider) install(spans sdktrace.TracerProviderOption) {
	tp.sdk = sdktrace.NewTracerProvider(
		spans,
		sdktrace.WithSampler(samplerFor(tp.cfg.SamplingRatio)),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(tp.cfg.ServiceName),
			semconv.ServiceVersion(tp.cfg.ServiceVersion),
		)),
	)
	otel.SetTracerProvider(tp.sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Shutdown flushes buffered spans, waiting at most 10s
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := tp.sdk.Shutdown(ctx); err != nil {
		tp.logger.Warn("Tracer provider shutdown failed", zap.Error(err))
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

// Tracer falls back to the global provider when tracing is disabled
func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if tp.sdk == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return tp.sdk.Tracer(name, opts...)
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp.sdk != nil
}

func (tp *TracerProvider) ForceFlush(ctx context.Context) error {
	if tp.sdk == nil {
		return nil
	}
	return tp.sdk.ForceFlush(ctx)
}
