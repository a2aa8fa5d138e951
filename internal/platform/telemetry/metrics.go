package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

const instrumentationScope = "github.com/jsamuelsen11/go-accounts-service"

// Metrics are the service's instruments, one duration histogram and one
// counter per layer: HTTP server, dispatcher, store.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	DispatchDuration      metric.Float64Histogram
	DispatchTotal         metric.Int64Counter
	StoreRequestDuration  metric.Float64Histogram
	StoreRequestTotal     metric.Int64Counter
}

// NewMetrics registers the instruments on mp.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(instrumentationScope,
		metric.WithInstrumentationAttributes(semconv.ServiceName(serviceName)),
	)

	m := &Metrics{}
	layers := []struct {
		prefix, what string
		duration     *metric.Float64Histogram
		total        *metric.Int64Counter
	}{
		{"http.server.request", "incoming HTTP requests", &m.ServerRequestDuration, &m.ServerRequestTotal},
		{"dispatcher.request", "dispatched commands and queries", &m.DispatchDuration, &m.DispatchTotal},
		{"store.request", "backing store operations", &m.StoreRequestDuration, &m.StoreRequestTotal},
	}

	for _, l := range layers {
		h, err := meter.Float64Histogram(l.prefix+".duration",
			metric.WithDescription("Duration of "+l.what), metric.WithUnit("s"))
		if err != nil {
			return nil, fmt.Errorf("registering %s.duration: %w", l.prefix, err)
		}
		c, err := meter.Int64Counter(l.prefix+".total",
			metric.WithDescription("Count of "+l.what), metric.WithUnit("{request}"))
		if err != nil {
			return nil, fmt.Errorf("registering %s.total: %w", l.prefix, err)
		}
		*l.duration, *l.total = h, c
	}
	return m, nil
}
