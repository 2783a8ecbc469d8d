// Package internal groups the packages that are private to portalAuth.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - config: PORTAL_* environment settings for portald
//   - flows: pure-function flow orchestrators for every Engine operation
//   - httpapi: the chi-based REST boundary
//   - logging: slog setup with trace correlation
//   - metrics: lock-free counters and latency histograms
//   - security: configuration posture report
//
// # What this package must NOT do
//
//   - Export types that appear in the public portalAuth API except through
//     root aliases.
package internal
