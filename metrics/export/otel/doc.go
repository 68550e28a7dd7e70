// Package otel exposes goTokenAuth engine metrics as OpenTelemetry
// asynchronous instruments.
//
// [New] registers an Int64ObservableCounter per engine counter and an
// Int64ObservableGauge per latency bucket. A single callback reads
// Engine.MetricsSnapshot on each collection. Callers own the MeterProvider.
package otel
