// Package security summarizes an engine configuration into a read-only
// posture report with warnings for weak settings.
//
// # What this package must NOT do
//
//   - Import the root package.
//   - Carry secrets; the report holds lengths and parameters only.
package security
