package worker

import (
	"context"

	"github.com/phrazzld/offload-api/internal/worker/queue"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ObserveQueue registers gauges reporting the length of the queue behind
// producer and whether it is currently full. Unregister the returned
// registration when the queue is retired.
func ObserveQueue[M any](meter metric.Meter, name string, producer queue.Producer[M]) (metric.Registration, error) {
	length, err := meter.Int64ObservableGauge(
		"offload.queue.length",
		metric.WithDescription("Messages waiting in a worker queue"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	full, err := meter.Int64ObservableGauge(
		"offload.queue.full",
		metric.WithDescription("1 when a worker queue is at or above its max length"),
	)
	if err != nil {
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("queue", name))

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(length, int64(producer.Len()), attrs)

		var isFull int64
		if producer.IsFull() {
			isFull = 1
		}
		o.ObserveInt64(full, isFull, attrs)
		return nil
	}, length, full)
}
