// Package otel registers OpenTelemetry observable instruments that mirror
// the engine's in-process metrics.
//
// Counters map to Int64ObservableCounter; the authorize latency histogram is
// flattened into one gauge per cumulative bucket plus a count gauge, because
// observable histograms are not part of the metric API.
//
// # What this package must NOT do
//
//   - Install a global MeterProvider.
//   - Mutate engine state.
package otel
