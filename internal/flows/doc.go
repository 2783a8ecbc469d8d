// Package flows contains pure-function orchestrators for every Engine operation.
//
// Each flow function (RunRegister, RunLogin, RunAuthorize, etc.) accepts a
// typed dependency struct and returns a result value carrying a FailureKind
// instead of an error type from the root package.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the account store, password hasher,
// token manager, audit emitter and metrics. They do NOT own any of these
// resources; ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import portalAuth (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependency functions.
package flows
