package telemetry

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Metrics owns the process MeterProvider. Instruments are read on demand
// through Snapshot, which backs the /metrics endpoint.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// NewMetrics builds a MeterProvider backed by a manual reader.
func NewMetrics() *Metrics {
	reader := sdkmetric.NewManualReader()
	return &Metrics{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:   reader,
	}
}

// Meter returns a named meter from the provider.
func (m *Metrics) Meter(name string) metric.Meter {
	return m.provider.Meter(name)
}

// SetGlobal installs the provider as the otel global MeterProvider.
func (m *Metrics) SetGlobal() {
	otel.SetMeterProvider(m.provider)
}

// Shutdown flushes and stops the provider. Snapshot fails afterwards.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// Metric is a flattened view of one instrument.
type Metric struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Kind        string  `json:"kind"`
	Points      []Point `json:"points"`
}

// Point is one attribute set of an instrument. Value is set for sums and
// gauges; Count and Sum for histograms.
type Point struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	Value      float64           `json:"value"`
	Count      uint64            `json:"count,omitempty"`
	Sum        float64           `json:"sum,omitempty"`
}

// Snapshot collects every instrument, sorted by name.
func (m *Metrics) Snapshot(ctx context.Context) ([]Metric, error) {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	var out []Metric
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			out = append(out, flatten(md))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func flatten(md metricdata.Metrics) Metric {
	m := Metric{Name: md.Name, Description: md.Description, Unit: md.Unit}

	switch data := md.Data.(type) {
	case metricdata.Sum[int64]:
		m.Kind = "sum"
		for _, dp := range data.DataPoints {
			m.Points = append(m.Points, Point{Attributes: attrs(dp.Attributes), Value: float64(dp.Value)})
		}
	case metricdata.Sum[float64]:
		m.Kind = "sum"
		for _, dp := range data.DataPoints {
			m.Points = append(m.Points, Point{Attributes: attrs(dp.Attributes), Value: dp.Value})
		}
	case metricdata.Gauge[int64]:
		m.Kind = "gauge"
		for _, dp := range data.DataPoints {
			m.Points = append(m.Points, Point{Attributes: attrs(dp.Attributes), Value: float64(dp.Value)})
		}
	case metricdata.Gauge[float64]:
		m.Kind = "gauge"
		for _, dp := range data.DataPoints {
			m.Points = append(m.Points, Point{Attributes: attrs(dp.Attributes), Value: dp.Value})
		}
	case metricdata.Histogram[int64]:
		m.Kind = "histogram"
		for _, dp := range data.DataPoints {
			m.Points = append(m.Points, Point{Attributes: attrs(dp.Attributes), Count: dp.Count, Sum: float64(dp.Sum)})
		}
	case metricdata.Histogram[float64]:
		m.Kind = "histogram"
		for _, dp := range data.DataPoints {
			m.Points = append(m.Points, Point{Attributes: attrs(dp.Attributes), Count: dp.Count, Sum: dp.Sum})
		}
	default:
		m.Kind = "unsupported"
	}

	return m
}

func attrs(set attribute.Set) map[string]string {
	if set.Len() == 0 {
		return nil
	}
	out := make(map[string]string, set.Len())
	for _, kv := range set.ToSlice() {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}
