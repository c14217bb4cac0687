// pkg/secure_erase/metrics.go

package secure_erase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kramden/provision/pkg/secure_erase"

// Metrics records per-drive erase results. A nil *Metrics is a no-op.
type Metrics struct {
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewMetrics registers instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	outcomes, err := meter.Int64Counter("kramden.erase.outcomes",
		metric.WithDescription("Drive erase outcomes by interface, strategy and result"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("kramden.erase.duration",
		metric.WithDescription("Time from worker start to terminal outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter("kramden.erase.active",
		metric.WithDescription("Drive erase workers currently running"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{outcomes: outcomes, duration: duration, active: active}, nil
}

func (m *Metrics) workerStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

func (m *Metrics) workerFinished(ctx context.Context, mode Mode, outcome EraseOutcome) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("interface", string(outcome.Drive.Interface)),
		attribute.String("strategy", string(outcome.Strategy)),
		attribute.String("mode", mode.String()),
		attribute.Bool("success", outcome.Success),
		attribute.String("reason", string(outcome.Reason)),
	)
	m.active.Add(ctx, -1)
	m.outcomes.Add(ctx, 1, attrs)
	m.duration.Record(ctx, outcome.Duration().Seconds(), attrs)
}
