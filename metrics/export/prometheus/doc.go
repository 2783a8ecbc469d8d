// Package prometheus exposes engine metrics as a prometheus.Collector.
//
// [Exporter] reads [portalAuth.Engine.MetricsSnapshot] on every scrape and
// emits portal_*_total counters plus the portal_authorize_latency_seconds
// histogram. Callers register it on their own registry or mount
// [Exporter.Handler].
//
// # What this package must NOT do
//
//   - Register in the global Prometheus registry.
//   - Mutate engine state.
package prometheus
