// Package metrics holds the engine's in-process counters and the Authorize
// latency histogram.
//
// Every [MetricID] maps to one padded atomic slot, so Inc and Observe never
// allocate or lock. [Metrics.Snapshot] copies the current values for the
// exporters under metrics/export, which own naming and wire formats.
//
// A Metrics built with Enabled=false ignores writes and returns empty snapshots.
// The package performs no I/O and imports nothing from portalAuth.
package metrics
