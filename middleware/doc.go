// Package middleware exposes HTTP middleware built on top of portalAuth.Engine.
//
// # Middleware
//
//   - [Guard] requires a valid bearer token and injects the resolved
//     [portalAuth.Identity] into the request context.
//   - [RequestContext] records client IP and User-Agent for audit events.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// authentication logic itself; all decisions are delegated to Engine.Authorize.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Read the user store.
//   - Tell the client why a token was rejected.
package middleware
