package portalAuth

import (
	"context"
	"io"
	"log/slog"
	"time"

	internalaudit "github.com/leanda/portalAuth/internal/audit"
	internalmetrics "github.com/leanda/portalAuth/internal/metrics"
	"github.com/leanda/portalAuth/jwt"
)

// UserStore persists accounts. Implementations live under store/.
//
// FindByEmail returns (or wraps) [ErrStoreNotFound] when no account matches.
// Save inserts when the account ID is zero and updates otherwise; it assigns
// ID, CreatedAt and UpdatedAt on insert, refreshes UpdatedAt on update and
// returns (or wraps) [ErrStoreDuplicateEmail] on a uniqueness conflict.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	Save(ctx context.Context, account Account) (Account, error)
}

// RegisterRequest is the registration payload. Password is plaintext and is
// hashed before anything is persisted.
type RegisterRequest struct {
	Email     string
	FullName  string
	Password  string
	StudentID string
	Course    string
	Year      int
}

// Identity is the caller resolved from a bearer token. It is built from token
// claims alone; a token issued before a profile change carries the old name
// until it expires.
type Identity struct {
	Email     string
	FullName  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// AuthResult is returned by [Engine.Register], [Engine.Login] and
// [Engine.Logout]. Exactly one of the success fields or Err is meaningful.
type AuthResult struct {
	Account *AccountView
	// Token and Claims are set by a successful Login only.
	Token  string
	Claims *jwt.Claims
	Err    *AuthError
}

// OK reports whether the operation succeeded.
func (r AuthResult) OK() bool {
	return r.Err == nil
}

// Kind returns the failure kind, or KindUnknown on success.
func (r AuthResult) Kind() ErrorKind {
	if r.Err == nil {
		return KindUnknown
	}
	return r.Err.Kind
}

// Error returns Err as an error value, or nil. It avoids the typed-nil trap of
// assigning r.Err directly to an error variable.
func (r AuthResult) Error() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// Dashboard is the landing summary for an authenticated student.
type Dashboard struct {
	Message string
	User    DashboardUser
	Stats   DashboardStats
}

type DashboardUser struct {
	FullName string
	Course   string
	Year     int
}

// DashboardStats is a placeholder block; every counter is currently zero.
type DashboardStats struct {
	TotalCourses         int
	CompletedAssignments int
	UpcomingEvents       int
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink is an [AuditSink] that logs each event through a [slog.Logger].
type SlogSink = internalaudit.SlogSink

// Audit event types.
const (
	AuditRegisterSuccess   = internalaudit.EventRegisterSuccess
	AuditRegisterFailure   = internalaudit.EventRegisterFailure
	AuditRegisterDuplicate = internalaudit.EventRegisterDuplicate
	AuditLoginSuccess      = internalaudit.EventLoginSuccess
	AuditLoginFailure      = internalaudit.EventLoginFailure
	AuditLogout            = internalaudit.EventLogout
	AuditAuthorizeFailure  = internalaudit.EventAuthorizeFailure
	AuditProfileUpdate     = internalaudit.EventProfileUpdate
)

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewSlogSink creates a [SlogSink] that logs to logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return internalaudit.NewSlogSink(logger)
}

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	MetricRegisterSuccess      = internalmetrics.MetricRegisterSuccess
	MetricRegisterDuplicate    = internalmetrics.MetricRegisterDuplicate
	MetricRegisterWeakPassword = internalmetrics.MetricRegisterWeakPassword
	MetricRegisterFailure      = internalmetrics.MetricRegisterFailure
	MetricLoginSuccess         = internalmetrics.MetricLoginSuccess
	MetricLoginFailure         = internalmetrics.MetricLoginFailure
	MetricLogout               = internalmetrics.MetricLogout
	MetricLogoutRejected       = internalmetrics.MetricLogoutRejected
	MetricAuthorizeSuccess     = internalmetrics.MetricAuthorizeSuccess
	MetricAuthorizeFailure     = internalmetrics.MetricAuthorizeFailure
	MetricProfileUpdate        = internalmetrics.MetricProfileUpdate
	// MetricAuthorizeLatency is a histogram and never appears in Snapshot.Counters.
	MetricAuthorizeLatency = internalmetrics.MetricAuthorizeLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
