package portalAuth

import (
	"context"

	internalflows "github.com/leanda/portalAuth/internal/flows"
)

// Authorize resolves a bearer token into an [Identity].
//
// Authorize never reads the user store. Failures are *AuthError values of
// kind KindInvalidSignature, KindExpired or KindMalformed; all of them match
// ErrUnauthorized and render as "unauthorized". The precise kind is logged at
// debug level only.
func (e *Engine) Authorize(ctx context.Context, token string) (Identity, error) {
	if !e.ready() {
		return Identity{}, notReady()
	}

	res := e.flows.Authorize(ctx, token)
	if res.Failure != internalflows.FailureNone {
		kind := kindFromFailure(res.Failure)
		e.logger.DebugContext(ctx, "authorization rejected", "kind", kind.String())
		return Identity{}, newAuthError(kind, "", res.Err)
	}

	id := Identity{
		Email:    res.Claims.Email,
		FullName: res.Claims.FullName,
		TokenID:  res.Claims.ID,
	}
	if res.Claims.IssuedAt != nil {
		id.IssuedAt = res.Claims.IssuedAt.Time
	}
	if res.Claims.ExpiresAt != nil {
		id.ExpiresAt = res.Claims.ExpiresAt.Time
	}
	return id, nil
}
