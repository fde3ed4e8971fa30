// Package telemetry sets up the OpenTelemetry MeterProvider for the server
// and exposes point-in-time snapshots of its instruments.
package telemetry
