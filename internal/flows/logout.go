package flows

import (
	"context"

	"github.com/leanda/portalAuth/internal/audit"
	"github.com/leanda/portalAuth/internal/metrics"
	"github.com/leanda/portalAuth/jwt"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ParseToken func(string) (*jwt.Claims, error)
	Hooks      Hooks
}

type LogoutResult struct {
	// Claims is nil when the token was accepted as expired.
	Claims  *jwt.Claims
	Failure FailureKind
	Err     error
}

// RunLogout accepts any correctly signed, well-formed token, expired or not.
// Nothing is revoked: the token stays usable until it expires.
func RunLogout(ctx context.Context, token string, deps LogoutDeps) LogoutResult {
	hooks := deps.Hooks.withDefaults()

	claims, err := deps.ParseToken(token)
	kind := TokenFailure(err)
	if kind != FailureNone && kind != FailureExpired {
		hooks.MetricInc(metrics.MetricLogoutRejected)
		hooks.EmitAudit(ctx, AuditRecord{
			EventType: audit.EventLogout,
			Failure:   kind,
			Cause:     err,
		})
		return LogoutResult{Failure: kind, Err: err}
	}

	record := AuditRecord{EventType: audit.EventLogout}
	if claims != nil {
		record.Email = claims.Email
		record.TokenID = claims.ID
	} else {
		record.Metadata = map[string]string{"token": "expired"}
	}
	hooks.MetricInc(metrics.MetricLogout)
	hooks.EmitAudit(ctx, record)
	return LogoutResult{Claims: claims}
}
