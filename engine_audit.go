package portalAuth

import (
	"context"

	internalflows "github.com/leanda/portalAuth/internal/flows"
)

// AuditErrorCode is the stable error string carried by failed audit events.
type AuditErrorCode string

const (
	auditErrEmailTaken         AuditErrorCode = "email_taken"
	auditErrWeakPassword       AuditErrorCode = "weak_password"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrInvalidSignature   AuditErrorCode = "invalid_signature"
	auditErrExpired            AuditErrorCode = "expired"
	auditErrMalformed          AuditErrorCode = "malformed"
	auditErrAccountNotFound    AuditErrorCode = "account_not_found"
	auditErrInvalidAccount     AuditErrorCode = "invalid_account"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(ctx context.Context, rec internalflows.AuditRecord) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: rec.EventType,
		Email:     rec.Email,
		AccountID: rec.AccountID,
		TokenID:   rec.TokenID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   rec.Failure == internalflows.FailureNone,
		Metadata:  rec.Metadata,
	}
	if code := auditErrorCode(rec.Failure); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(kind internalflows.FailureKind) AuditErrorCode {
	switch kind {
	case internalflows.FailureNone:
		return ""
	case internalflows.FailureEmailTaken:
		return auditErrEmailTaken
	case internalflows.FailureWeakPassword:
		return auditErrWeakPassword
	case internalflows.FailureInvalidCredentials:
		return auditErrInvalidCredentials
	case internalflows.FailureInvalidSignature:
		return auditErrInvalidSignature
	case internalflows.FailureExpired:
		return auditErrExpired
	case internalflows.FailureMalformed:
		return auditErrMalformed
	case internalflows.FailureAccountNotFound:
		return auditErrAccountNotFound
	case internalflows.FailureInvalidAccount:
		return auditErrInvalidAccount
	case internalflows.FailureUnavailable:
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}

func kindFromFailure(f internalflows.FailureKind) ErrorKind {
	switch f {
	case internalflows.FailureEmailTaken:
		return KindEmailTaken
	case internalflows.FailureWeakPassword:
		return KindWeakPassword
	case internalflows.FailureInvalidCredentials:
		return KindInvalidCredentials
	case internalflows.FailureInvalidSignature:
		return KindInvalidSignature
	case internalflows.FailureExpired:
		return KindExpired
	case internalflows.FailureMalformed:
		return KindMalformed
	case internalflows.FailureAccountNotFound:
		return KindAccountNotFound
	case internalflows.FailureInvalidAccount:
		return KindInvalidAccount
	case internalflows.FailureUnavailable:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

func authErrorFromFailure(f internalflows.FailureKind, reason string, cause error) *AuthError {
	return newAuthError(kindFromFailure(f), reason, cause)
}
