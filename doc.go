// Package portalAuth provides the identity core of the student portal:
// account registration, password login with signed JWTs, stateless logout,
// bearer-token authorization and the profile operations that hang off an
// authenticated identity.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// portalAuth is the public surface. It exposes [Engine], [Builder], [Config], the
// [UserStore] contract and value types ([Account], [AccountView], [AuthResult],
// [Identity]). Flow orchestration, audit dispatch and metric counters live under
// internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Return a raw store or token error from an Engine method. Every failure is an [*AuthError].
//   - Surface a password hash outside of [Account]. Callers receive [AccountView].
//   - Touch the store from [Engine.Authorize].
//   - Import any sub-package that re-imports portalAuth (no import cycles).
package portalAuth
