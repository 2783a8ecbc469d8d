package portalAuth

import (
	"context"

	internalflows "github.com/leanda/portalAuth/internal/flows"
)

// Register creates an account.
//
// Checks run in order and the first failure decides the result: required
// fields (KindInvalidAccount), email uniqueness (KindEmailTaken), password
// policy (KindWeakPassword with the violated rule's message). Only then is
// the password hashed and the account saved. A uniqueness conflict reported
// by the store on save also yields KindEmailTaken; any other store failure
// yields KindUnavailable.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) AuthResult {
	if !e.ready() {
		return AuthResult{Err: notReady()}
	}

	res := e.flows.Register(ctx, internalflows.RegisterRequest(req))
	if res.Failure != internalflows.FailureNone {
		if res.Failure == internalflows.FailureUnavailable {
			e.logger.ErrorContext(ctx, "registration failed", "error", res.Err)
		}
		return AuthResult{Err: authErrorFromFailure(res.Failure, res.Reason, res.Err)}
	}

	view := accountFromRecord(res.Account).View()
	return AuthResult{Account: &view}
}
