package api

import (
	"context"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
)

// Tracer owns the process tracer provider when OTLP export is configured.
type Tracer struct {
	provider *trace.TracerProvider
}

// SetupTracing installs a global OTLP tracer provider when
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Otherwise tracing stays disabled and Middleware is a pass-through.
func SetupTracing(ctx context.Context, serviceName string, log *zap.SugaredLogger) *Tracer {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		return &Tracer{}
	}

	opts := []otlptracehttp.Option{}
	if strings.HasPrefix(strings.ToLower(endpoint), "http://") {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		log.Warnw("tracing exporter init failed, tracing disabled", "err", err)
		return &Tracer{}
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		log.Warnw("tracing resource init failed, tracing disabled", "err", err)
		_ = exp.Shutdown(ctx)
		return &Tracer{}
	}

	tp := trace.NewTracerProvider(trace.WithBatcher(exp), trace.WithResource(res))
	otel.SetTracerProvider(tp)
	log.Infow("tracing enabled", "endpoint", endpoint)
	return &Tracer{provider: tp}
}

func (t *Tracer) Enabled() bool {
	return t != nil && t.provider != nil
}

// Middleware wraps handlers with otelhttp when tracing is enabled.
func (t *Tracer) Middleware() func(http.Handler) http.Handler {
	if !t.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler { return otelhttp.NewHandler(next, "http") }
}

// Shutdown flushes pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
