// Package jwt issues and verifies the portal's HS256 bearer tokens.
//
// Tokens are self-contained: [Manager.Parse] is a pure function of the token
// bytes, the signing secret and the clock. There is no revocation list, so a
// token stays valid until its expiry even after logout.
//
// Parse failures are classified as [ErrInvalidSignature], [ErrExpired] or
// [ErrMalformed]. The signature is always checked before expiry, so a tampered
// token is reported as a signature failure even when it is also expired.
package jwt
