package flows

import (
	"context"
	"strings"

	"github.com/leanda/portalAuth/internal/audit"
	"github.com/leanda/portalAuth/internal/metrics"
)

// PasswordTooLongReason is the WeakPassword reason for inputs the hasher rejects by length.
const PasswordTooLongReason = "Password must be at most 72 bytes"

type RegisterRequest struct {
	Email     string
	FullName  string
	Password  string
	StudentID string
	Course    string
	Year      int
}

type RegisterResult struct {
	Account AccountRecord
	Failure FailureKind
	// Reason is the human-readable detail for the failure, when one exists.
	Reason string
	Err    error
}

// RegisterDeps captures registration dependencies.
type RegisterDeps struct {
	Store            AccountStore
	ValidatePassword func(string) error
	HashPassword     func(string) (string, error)
	// IsTooLong reports whether a HashPassword error means the input exceeds
	// what the hasher accepts.
	IsTooLong func(error) bool
	Hooks     Hooks
}

// RunRegister validates the request, checks uniqueness, enforces the password
// policy, hashes and persists a new account. The checks run in that order and
// the first failing one decides the result.
func RunRegister(ctx context.Context, req RegisterRequest, deps RegisterDeps) RegisterResult {
	hooks := deps.Hooks.withDefaults()

	fail := func(event string, metric metrics.MetricID, kind FailureKind, reason string, err error) RegisterResult {
		hooks.MetricInc(metric)
		hooks.EmitAudit(ctx, AuditRecord{
			EventType: event,
			Email:     req.Email,
			Failure:   kind,
			Cause:     err,
			Metadata:  map[string]string{"reason": reason},
		})
		return RegisterResult{Failure: kind, Reason: reason, Err: err}
	}

	if strings.TrimSpace(req.Email) == "" {
		return fail(audit.EventRegisterFailure, metrics.MetricRegisterFailure, FailureInvalidAccount, "email is required", nil)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return fail(audit.EventRegisterFailure, metrics.MetricRegisterFailure, FailureInvalidAccount, "full name is required", nil)
	}

	_, found, err := deps.Store.FindByEmail(ctx, req.Email)
	if err != nil {
		return fail(audit.EventRegisterFailure, metrics.MetricRegisterFailure, FailureUnavailable, "account store unavailable", err)
	}
	if found {
		return fail(audit.EventRegisterDuplicate, metrics.MetricRegisterDuplicate, FailureEmailTaken, "Email already exists", nil)
	}

	if err := deps.ValidatePassword(req.Password); err != nil {
		return fail(audit.EventRegisterFailure, metrics.MetricRegisterWeakPassword, FailureWeakPassword, err.Error(), err)
	}

	hash, err := deps.HashPassword(req.Password)
	if err != nil {
		if deps.IsTooLong != nil && deps.IsTooLong(err) {
			return fail(audit.EventRegisterFailure, metrics.MetricRegisterWeakPassword, FailureWeakPassword, PasswordTooLongReason, err)
		}
		return fail(audit.EventRegisterFailure, metrics.MetricRegisterFailure, FailureUnavailable, "password hashing failed", err)
	}

	now := hooks.Now()
	saved, err := deps.Store.Save(ctx, AccountRecord{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		StudentID:    req.StudentID,
		Course:       req.Course,
		Year:         req.Year,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent registration can win the race between the lookup and the insert.
		if deps.Store.IsDuplicate != nil && deps.Store.IsDuplicate(err) {
			return fail(audit.EventRegisterDuplicate, metrics.MetricRegisterDuplicate, FailureEmailTaken, "Email already exists", err)
		}
		return fail(audit.EventRegisterFailure, metrics.MetricRegisterFailure, FailureUnavailable, "account store unavailable", err)
	}

	hooks.MetricInc(metrics.MetricRegisterSuccess)
	hooks.EmitAudit(ctx, AuditRecord{
		EventType: audit.EventRegisterSuccess,
		Email:     saved.Email,
		AccountID: saved.ID,
	})
	return RegisterResult{Account: saved}
}
