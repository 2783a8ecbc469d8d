package flows

import (
	"context"
	"errors"
	"time"

	"github.com/leanda/portalAuth/internal/metrics"
	"github.com/leanda/portalAuth/jwt"
)

// FailureKind classifies why a flow did not succeed. The root package maps
// each kind onto its public error kind one-to-one.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureInvalidAccount
	FailureEmailTaken
	FailureWeakPassword
	FailureInvalidCredentials
	FailureInvalidSignature
	FailureExpired
	FailureMalformed
	FailureAccountNotFound
	FailureUnavailable
)

// AccountRecord is the flow-local copy of a stored account.
type AccountRecord struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	StudentID    string
	Course       string
	Year         int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuditRecord is what a flow reports to the root audit emitter. Success is
// implied by Failure == FailureNone.
type AuditRecord struct {
	EventType string
	Email     string
	AccountID int64
	TokenID   string
	Failure   FailureKind
	Cause     error
	Metadata  map[string]string
}

// AccountStore is the subset of persistence the flows need.
type AccountStore struct {
	// FindByEmail reports found=false with a nil error when no account matches.
	FindByEmail func(context.Context, string) (AccountRecord, bool, error)
	Save        func(context.Context, AccountRecord) (AccountRecord, error)
	// IsDuplicate reports whether a Save error means the email is already taken.
	IsDuplicate func(error) bool
	// IsNotFound reports whether a Save error means the account no longer exists.
	IsNotFound func(error) bool
}

// Hooks carries the side channels every flow reports into.
type Hooks struct {
	MetricInc func(metrics.MetricID)
	Observe   func(metrics.MetricID, time.Duration)
	EmitAudit func(context.Context, AuditRecord)
	Now       func() time.Time
}

func (h Hooks) withDefaults() Hooks {
	if h.MetricInc == nil {
		h.MetricInc = func(metrics.MetricID) {}
	}
	if h.Observe == nil {
		h.Observe = func(metrics.MetricID, time.Duration) {}
	}
	if h.EmitAudit == nil {
		h.EmitAudit = func(context.Context, AuditRecord) {}
	}
	if h.Now == nil {
		h.Now = time.Now
	}
	return h
}

// TokenFailure maps a token parse error onto its failure kind. Errors that do
// not carry a known token sentinel are treated as malformed.
func TokenFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, jwt.ErrInvalidSignature):
		return FailureInvalidSignature
	case errors.Is(err, jwt.ErrExpired):
		return FailureExpired
	default:
		return FailureMalformed
	}
}
