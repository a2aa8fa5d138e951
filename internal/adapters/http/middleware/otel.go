package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-accounts-service/internal/platform/telemetry"
)

const (
	tracerName     = "github.com/jsamuelsen11/go-accounts-service/internal/adapters/http"
	unmatchedRoute = "unmatched"
)

// OpenTelemetry opens a server span per request, continuing any W3C trace
// context in the headers, and records the HTTP request metrics. Spans and
// metric labels use the chi route pattern, so account identities never
// become label values. 5xx responses mark the span as an error. A nil
// metrics records spans only.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(telemetry.AttrHTTPMethod.String(r.Method)),
			)
			defer span.End()

			ww := wrap(w, r)
			r = r.WithContext(ctx)
			next.ServeHTTP(ww, r)

			route, status := routePattern(r), statusOf(ww)
			labels := []attribute.KeyValue{
				telemetry.AttrHTTPMethod.String(r.Method),
				telemetry.AttrHTTPRoute.String(route),
				telemetry.AttrHTTPStatus.Int(status),
			}

			span.SetName(r.Method + " " + route)
			span.SetAttributes(labels[1:]...)
			if id := RequestIDFromContext(ctx); id != "" {
				span.SetAttributes(telemetry.AttrRequestID.String(id))
			}
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			if metrics == nil {
				return
			}
			outcome := "success"
			if status >= http.StatusBadRequest {
				outcome = "error"
			}
			set := metric.WithAttributes(append(labels, telemetry.AttrResult.String(outcome))...)
			metrics.ServerRequestDuration.Record(ctx, time.Since(start).Seconds(), set)
			metrics.ServerRequestTotal.Add(ctx, 1, set)
		})
	}
}

// routePattern is the chi route r matched, or unmatchedRoute. It is only
// meaningful after the router has served r.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
