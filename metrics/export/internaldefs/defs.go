package internaldefs

import (
	"github.com/leanda/portalAuth/internal/metrics"
)

// CounterDef names one counter slot for exporters.
type CounterDef struct {
	ID   metrics.MetricID
	Name string
	Help string
}

// HistogramDef names one histogram slot for exporters.
type HistogramDef struct {
	ID   metrics.MetricID
	Name string
	Help string
}

// AuditDropped is exported alongside the engine counters.
var AuditDropped = CounterDef{
	Name: "portal_audit_dropped_total",
	Help: "Dropped audit events due to dispatcher backpressure.",
}

var CounterDefs = []CounterDef{
	{ID: metrics.MetricRegisterSuccess, Name: "portal_register_success_total", Help: "Accounts created."},
	{ID: metrics.MetricRegisterDuplicate, Name: "portal_register_duplicate_total", Help: "Registrations rejected because the email is taken."},
	{ID: metrics.MetricRegisterWeakPassword, Name: "portal_register_weak_password_total", Help: "Registrations rejected by the password policy."},
	{ID: metrics.MetricRegisterFailure, Name: "portal_register_failure_total", Help: "Registrations failing for any other reason."},
	{ID: metrics.MetricLoginSuccess, Name: "portal_login_success_total", Help: "Successful logins."},
	{ID: metrics.MetricLoginFailure, Name: "portal_login_failure_total", Help: "Failed logins."},
	{ID: metrics.MetricLogout, Name: "portal_logout_total", Help: "Accepted logouts."},
	{ID: metrics.MetricLogoutRejected, Name: "portal_logout_rejected_total", Help: "Logouts rejected for an unusable token."},
	{ID: metrics.MetricAuthorizeSuccess, Name: "portal_authorize_success_total", Help: "Tokens accepted by Authorize."},
	{ID: metrics.MetricAuthorizeFailure, Name: "portal_authorize_failure_total", Help: "Tokens rejected by Authorize."},
	{ID: metrics.MetricProfileUpdate, Name: "portal_profile_update_total", Help: "Profile updates."},
}

var HistogramDefs = []HistogramDef{
	{ID: metrics.MetricAuthorizeLatency, Name: "portal_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds are the upper bounds in seconds of the first seven
// buckets; the eighth is +Inf.
var HistogramBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names every bucket, +Inf included, for exporters
// that flatten buckets into separate instruments.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling or
// truncating as needed.
func NormalizeBuckets(raw []uint64) [metrics.HistBucketCount]uint64 {
	var out [metrics.HistBucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [metrics.HistBucketCount]uint64) [metrics.HistBucketCount]uint64 {
	var out [metrics.HistBucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
