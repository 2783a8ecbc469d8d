package portalAuth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internalaudit "github.com/leanda/portalAuth/internal/audit"
	internalflows "github.com/leanda/portalAuth/internal/flows"
	"github.com/leanda/portalAuth/jwt"
	"github.com/leanda/portalAuth/password"
	"github.com/leanda/portalAuth/policy"
)

// Engine is the authentication core. Build one with [New] and [Builder.Build].
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config     Config
	store      UserStore
	hasher     password.Hasher
	dummyHash  string
	jwtManager *jwt.Manager
	logger     *slog.Logger
	now        func() time.Time
	audit      *internalaudit.Dispatcher
	metrics    *Metrics
	flows      internalflows.Service
}

// Close drains pending audit events and stops the dispatcher.
//
// Close does not touch the user store; its owner closes it.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// TokenTTL reports how long issued tokens stay valid.
func (e *Engine) TokenTTL() time.Duration {
	if e == nil || e.jwtManager == nil {
		return 0
	}
	return e.jwtManager.TTL()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.flows.Initialized()
}

// Login describes the login operation and its observable behavior.
//
// An unknown email and a wrong password both fail with KindInvalidCredentials
// and an identical error; the hasher runs in both cases. On success the
// result carries the signed token, its claims and the account view.
func (e *Engine) Login(ctx context.Context, email, plaintext string) AuthResult {
	if !e.ready() {
		return AuthResult{Err: notReady()}
	}

	res := e.flows.Login(ctx, email, plaintext)
	if res.Failure != internalflows.FailureNone {
		if res.Failure == internalflows.FailureUnavailable {
			e.logger.ErrorContext(ctx, "login failed", "error", res.Err)
		}
		reason := ""
		if res.Failure == internalflows.FailureInvalidCredentials {
			reason = "Invalid credentials"
		}
		return AuthResult{Err: authErrorFromFailure(res.Failure, reason, res.Err)}
	}

	view := accountFromRecord(res.Account).View()
	return AuthResult{
		Account: &view,
		Token:   res.Token,
		Claims:  res.Claims,
	}
}

// Logout acknowledges a logout for token.
//
// Logout is stateless: nothing is revoked and the token stays usable until it
// expires. Well-formed, correctly signed tokens succeed even when expired so a
// client can always log out; malformed and forged tokens fail.
func (e *Engine) Logout(ctx context.Context, token string) AuthResult {
	if !e.ready() {
		return AuthResult{Err: notReady()}
	}

	res := e.flows.Logout(ctx, token)
	if res.Failure != internalflows.FailureNone {
		e.logger.DebugContext(ctx, "logout rejected", "kind", kindFromFailure(res.Failure).String())
		return AuthResult{Err: authErrorFromFailure(res.Failure, "", res.Err)}
	}
	return AuthResult{Claims: res.Claims}
}

func notReady() *AuthError {
	return newAuthError(KindUnavailable, ErrEngineNotReady.Error(), ErrEngineNotReady)
}

func (e *Engine) buildFlows() internalflows.Service {
	hooks := internalflows.Hooks{
		MetricInc: e.metricInc,
		Observe:   e.metrics.Observe,
		EmitAudit: e.emitAudit,
		Now:       e.now,
	}
	store := internalflows.AccountStore{
		FindByEmail: e.findAccount,
		Save:        e.saveAccount,
		IsDuplicate: func(err error) bool {
			return errors.Is(err, ErrStoreDuplicateEmail)
		},
		IsNotFound: func(err error) bool {
			return errors.Is(err, ErrStoreNotFound)
		},
	}
	parse := e.jwtManager.Parse

	return internalflows.New(internalflows.Deps{
		Register: internalflows.RegisterDeps{
			Store:            store,
			ValidatePassword: policy.Validate,
			HashPassword:     e.hasher.Hash,
			IsTooLong: func(err error) bool {
				return errors.Is(err, password.ErrTooLong)
			},
			Hooks: hooks,
		},
		Login: internalflows.LoginDeps{
			Store:          store,
			VerifyPassword: e.hasher.Verify,
			DummyHash:      e.dummyHash,
			IssueToken:     e.jwtManager.IssueClaims,
			Hooks:          hooks,
		},
		Logout: internalflows.LogoutDeps{
			ParseToken: parse,
			Hooks:      hooks,
		},
		Authorize: internalflows.AuthorizeDeps{
			ParseToken: parse,
			Hooks:      hooks,
		},
		Profile: internalflows.ProfileDeps{
			Store: store,
			Apply: func(rec internalflows.AccountRecord, c internalflows.ProfileChanges) internalflows.AccountRecord {
				return accountFromRecord(rec).Apply(ProfileUpdate(c)).record()
			},
			Hooks: hooks,
		},
	})
}

// findAccount adapts UserStore.FindByEmail to the flow contract, turning
// ErrStoreNotFound into found=false.
func (e *Engine) findAccount(ctx context.Context, email string) (internalflows.AccountRecord, bool, error) {
	account, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return internalflows.AccountRecord{}, false, nil
		}
		return internalflows.AccountRecord{}, false, err
	}
	return account.record(), true, nil
}

func (e *Engine) saveAccount(ctx context.Context, rec internalflows.AccountRecord) (internalflows.AccountRecord, error) {
	saved, err := e.store.Save(ctx, accountFromRecord(rec))
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.logger.DebugContext(ctx, "store rejected duplicate email on save")
		}
		return internalflows.AccountRecord{}, err
	}
	return saved.record(), nil
}

func (a Account) record() internalflows.AccountRecord {
	return internalflows.AccountRecord(a)
}

func accountFromRecord(rec internalflows.AccountRecord) Account {
	return Account(rec)
}
