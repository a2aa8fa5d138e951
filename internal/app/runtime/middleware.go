package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// Outcome labels for logs and metrics; failures are labelled with their
// taxonomy kind.
const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
)

// Recovery returns middleware that converts a handler panic into
// Failure(domain.ErrUnavailable). The panic value and stack are logged but
// only the panic text reaches the caller.
func Recovery(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req ports.Request) (res result.Result[any]) {
			defer func() {
				if v := recover(); v != nil {
					logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered in handler",
						slog.String("operation", "Dispatcher.Execute"),
						slog.String("request", req.RequestName()),
						slog.String("panic", fmt.Sprint(v)),
						slog.String("stack", string(debug.Stack())),
					)
					res = result.Failure[any](fmt.Errorf("%w: handler for %s panicked: %v",
						domain.ErrUnavailable, req.RequestName(), v))
				}
			}()
			return next(ctx, req)
		}
	}
}

// Logging returns middleware that logs each execution with its request name,
// outcome, and duration. The request-scoped logger from ctx is preferred so
// request and correlation IDs are included; logger is the fallback.
//
// Expected client-side failures (validation, not found, conflict) log at
// INFO, cancellations at WARN, wiring and infrastructure failures at ERROR.
func Logging(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req ports.Request) result.Result[any] {
			start := time.Now()
			res := next(ctx, req)

			log := logging.FromContextOr(ctx, logger)
			attrs := []any{
				slog.String("operation", "Dispatcher.Execute"),
				slog.String("request", req.RequestName()),
				slog.String("outcome", outcome(res)),
				slog.Duration("duration", time.Since(start)),
			}

			if res.IsSuccess() {
				log.DebugContext(ctx, "request executed", attrs...)
				return res
			}

			if !res.IsFailure() {
				log.ErrorContext(ctx, "request returned a zero result", attrs...)
				return res
			}

			attrs = append(attrs, slog.Any("error", res.Err()))
			switch res.Kind() {
			case domain.KindValidation, domain.KindNotFound, domain.KindConflict:
				log.InfoContext(ctx, "request failed", attrs...)
			case domain.KindCanceled:
				log.WarnContext(ctx, "request canceled", attrs...)
			default:
				log.ErrorContext(ctx, "request failed", attrs...)
			}
			return res
		}
	}
}

// Telemetry returns middleware that wraps each execution in an internal span
// and records dispatch duration and count. If metrics is nil, only spans are
// recorded.
func Telemetry(metrics *telemetry.Metrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req ports.Request) result.Result[any] {
			start := time.Now()
			name := req.RequestName()

			tracer := otel.GetTracerProvider().Tracer("dispatcher")
			ctx, span := tracer.Start(ctx, "dispatch "+name,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(telemetry.AttrRequest.String(name)),
			)
			defer span.End()

			res := next(ctx, req)

			out := outcome(res)
			span.SetAttributes(attribute.String("outcome", out))
			if res.IsFailure() {
				span.RecordError(res.Err())
				if k := res.Kind(); k == domain.KindUnavailable || k == domain.KindUnsupportedOperation {
					span.SetStatus(codes.Error, res.Err().Error())
				}
			}

			if metrics != nil {
				attrs := metric.WithAttributes(
					telemetry.AttrRequest.String(name),
					telemetry.AttrResult.String(out),
				)
				metrics.DispatchDuration.Record(ctx, time.Since(start).Seconds(), attrs)
				metrics.DispatchTotal.Add(ctx, 1, attrs)
			}
			return res
		}
	}
}

// outcome labels a Result for logs and metrics. A zero Result is labelled
// outcomeInvalid rather than panicking.
func outcome(res result.Result[any]) string {
	switch {
	case res.IsSuccess():
		return outcomeSuccess
	case res.IsFailure():
		return res.Kind().String()
	default:
		return outcomeInvalid
	}
}
