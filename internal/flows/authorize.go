package flows

import (
	"context"

	"github.com/leanda/portalAuth/internal/audit"
	"github.com/leanda/portalAuth/internal/metrics"
	"github.com/leanda/portalAuth/jwt"
)

// AuthorizeDeps captures request-authorization dependencies. Authorization
// is resolved from claims alone and has no store access.
type AuthorizeDeps struct {
	ParseToken func(string) (*jwt.Claims, error)
	Hooks      Hooks
}

type AuthorizeResult struct {
	Claims  *jwt.Claims
	Failure FailureKind
	Err     error
}

func RunAuthorize(ctx context.Context, token string, deps AuthorizeDeps) AuthorizeResult {
	hooks := deps.Hooks.withDefaults()
	start := hooks.Now()
	defer func() {
		hooks.Observe(metrics.MetricAuthorizeLatency, hooks.Now().Sub(start))
	}()

	claims, err := deps.ParseToken(token)
	if kind := TokenFailure(err); kind != FailureNone {
		hooks.MetricInc(metrics.MetricAuthorizeFailure)
		hooks.EmitAudit(ctx, AuditRecord{
			EventType: audit.EventAuthorizeFailure,
			Failure:   kind,
			Cause:     err,
		})
		return AuthorizeResult{Failure: kind, Err: err}
	}

	hooks.MetricInc(metrics.MetricAuthorizeSuccess)
	return AuthorizeResult{Claims: claims}
}
