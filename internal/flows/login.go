package flows

import (
	"context"

	"github.com/leanda/portalAuth/internal/audit"
	"github.com/leanda/portalAuth/internal/metrics"
	"github.com/leanda/portalAuth/jwt"
)

type LoginResult struct {
	Account AccountRecord
	Token   string
	Claims  *jwt.Claims
	Failure FailureKind
	Err     error
}

// LoginDeps captures login dependencies.
type LoginDeps struct {
	Store          AccountStore
	VerifyPassword func(plaintext, hash string) bool
	// DummyHash is verified against when the email is unknown so both
	// credential failures cost one hash comparison.
	DummyHash  string
	IssueToken func(email, fullName string) (string, *jwt.Claims, error)
	Hooks      Hooks
}

// RunLogin checks credentials and issues a token. An unknown email and a
// wrong password produce the same failure.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) LoginResult {
	hooks := deps.Hooks.withDefaults()

	fail := func(kind FailureKind, reason string, err error) LoginResult {
		hooks.MetricInc(metrics.MetricLoginFailure)
		hooks.EmitAudit(ctx, AuditRecord{
			EventType: audit.EventLoginFailure,
			Email:     email,
			Failure:   kind,
			Cause:     err,
			Metadata:  map[string]string{"reason": reason},
		})
		return LoginResult{Failure: kind, Err: err}
	}

	account, found, err := deps.Store.FindByEmail(ctx, email)
	if err != nil {
		return fail(FailureUnavailable, "store_error", err)
	}
	if !found {
		deps.VerifyPassword(password, deps.DummyHash)
		return fail(FailureInvalidCredentials, "unknown_email", nil)
	}
	if !deps.VerifyPassword(password, account.PasswordHash) {
		return fail(FailureInvalidCredentials, "password_mismatch", nil)
	}

	token, claims, err := deps.IssueToken(account.Email, account.FullName)
	if err != nil {
		return fail(FailureUnavailable, "token_issue_failed", err)
	}

	hooks.MetricInc(metrics.MetricLoginSuccess)
	hooks.EmitAudit(ctx, AuditRecord{
		EventType: audit.EventLoginSuccess,
		Email:     account.Email,
		AccountID: account.ID,
		TokenID:   claims.ID,
	})
	return LoginResult{Account: account, Token: token, Claims: claims}
}
