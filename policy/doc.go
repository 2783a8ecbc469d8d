// Package policy validates candidate passwords against the portal's
// composition rules.
//
// Rules run in a fixed order and the first violated rule wins, so callers can
// surface exactly one actionable message. [Validate] is pure: no I/O, no
// hidden state.
package policy
