package portalAuth

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already exists")
	// ErrWeakPassword is returned when a registration password breaks a policy rule.
	ErrWeakPassword = errors.New("weak password")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is matched by every token failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAccountNotFound is returned when an authenticated identity no longer has an account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountInvalid is returned when a required account field is missing.
	ErrAccountInvalid = errors.New("invalid account")
	// ErrStoreUnavailable is returned when the account store fails.
	ErrStoreUnavailable = errors.New("account store unavailable")
	// ErrEngineNotReady is returned by a zero or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Store-facing sentinels. UserStore implementations return (or wrap) these so
// the engine can tell a missing account and a uniqueness conflict apart from
// an outage.
var (
	ErrStoreNotFound       = errors.New("account not found in store")
	ErrStoreDuplicateEmail = errors.New("duplicate email in store")
)

// ErrorKind classifies an [AuthError].
type ErrorKind int

const (
	// KindUnknown is the zero value and never set on a returned error.
	KindUnknown ErrorKind = iota
	KindEmailTaken
	KindWeakPassword
	KindInvalidCredentials
	KindInvalidSignature
	KindExpired
	KindMalformed
	KindAccountNotFound
	KindInvalidAccount
	KindUnavailable
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindEmailTaken:         "email_taken",
	KindWeakPassword:       "weak_password",
	KindInvalidCredentials: "invalid_credentials",
	KindInvalidSignature:   "invalid_signature",
	KindExpired:            "expired",
	KindMalformed:          "malformed",
	KindAccountNotFound:    "account_not_found",
	KindInvalidAccount:     "invalid_account",
	KindUnavailable:        "unavailable",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// IsTokenFailure reports whether k describes a rejected bearer token.
func (k ErrorKind) IsTokenFailure() bool {
	return k == KindInvalidSignature || k == KindExpired || k == KindMalformed
}

// Sentinel returns the package error that errors.Is matches for k.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindEmailTaken:
		return ErrEmailTaken
	case KindWeakPassword:
		return ErrWeakPassword
	case KindInvalidCredentials:
		return ErrInvalidCredentials
	case KindInvalidSignature, KindExpired, KindMalformed:
		return ErrUnauthorized
	case KindAccountNotFound:
		return ErrAccountNotFound
	case KindInvalidAccount:
		return ErrAccountInvalid
	case KindUnavailable:
		return ErrStoreUnavailable
	default:
		return nil
	}
}

// AuthError is the only error type returned by [Engine] methods.
//
// Reason carries a caller-facing detail where one exists, such as the violated
// password rule. Token failures always render as "unauthorized" so the
// precise cause is never shown to a client; Kind keeps it for logs.
type AuthError struct {
	Kind   ErrorKind
	Reason string
	cause  error
}

func newAuthError(kind ErrorKind, reason string, cause error) *AuthError {
	return &AuthError{Kind: kind, Reason: reason, cause: cause}
}

func (e *AuthError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Kind.IsTokenFailure() {
		return ErrUnauthorized.Error()
	}
	if e.Reason != "" {
		return e.Reason
	}
	if s := e.Kind.Sentinel(); s != nil {
		return s.Error()
	}
	return e.Kind.String()
}

// Unwrap exposes both the kind's sentinel and the underlying cause.
func (e *AuthError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, 2)
	if s := e.Kind.Sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// KindOf returns the kind of the first AuthError in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) && ae != nil {
		return ae.Kind
	}
	return KindUnknown
}
