// Package password implements one-way password hashing and verification.
//
// # Algorithms
//
//   - [Bcrypt] is the default. Hashes use the standard $2a$ modular crypt format.
//   - [Argon2] produces argon2id PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Both draw a fresh random salt per call, so hashing the same plaintext twice
// yields two different strings that both verify.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password composition rules
// live in the policy package and are enforced by the Engine before hashing.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other portalAuth package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
