package flows

import (
	"context"
	"strings"

	"github.com/leanda/portalAuth/internal/audit"
	"github.com/leanda/portalAuth/internal/metrics"
)

// ProfileChanges lists the fields a profile update may touch. Nil fields are
// left unchanged.
type ProfileChanges struct {
	FullName  *string
	StudentID *string
	Course    *string
	Year      *int
}

// ProfileDeps captures profile read and update dependencies.
type ProfileDeps struct {
	Store AccountStore
	// Apply returns a copy of the record with changes applied.
	Apply func(AccountRecord, ProfileChanges) AccountRecord
	Hooks Hooks
}

type ProfileResult struct {
	Account AccountRecord
	Failure FailureKind
	Reason  string
	Err     error
}

// RunProfile loads the account owned by email.
func RunProfile(ctx context.Context, email string, deps ProfileDeps) ProfileResult {
	account, found, err := deps.Store.FindByEmail(ctx, email)
	switch {
	case err != nil:
		return ProfileResult{Failure: FailureUnavailable, Reason: "account store unavailable", Err: err}
	case !found:
		return ProfileResult{Failure: FailureAccountNotFound, Reason: "User not found"}
	}
	return ProfileResult{Account: account}
}

// RunUpdateProfile applies changes to the account owned by email. Email and
// password hash are never modified here.
func RunUpdateProfile(ctx context.Context, email string, changes ProfileChanges, deps ProfileDeps) ProfileResult {
	hooks := deps.Hooks.withDefaults()

	if changes.FullName != nil && strings.TrimSpace(*changes.FullName) == "" {
		return ProfileResult{Failure: FailureInvalidAccount, Reason: "full name is required"}
	}

	loaded := RunProfile(ctx, email, deps)
	if loaded.Failure != FailureNone {
		return loaded
	}

	saved, err := deps.Store.Save(ctx, deps.Apply(loaded.Account, changes))
	if err != nil {
		// Deleted between the load and the save.
		if deps.Store.IsNotFound != nil && deps.Store.IsNotFound(err) {
			return ProfileResult{Failure: FailureAccountNotFound, Reason: "User not found", Err: err}
		}
		return ProfileResult{Failure: FailureUnavailable, Reason: "account store unavailable", Err: err}
	}

	hooks.MetricInc(metrics.MetricProfileUpdate)
	hooks.EmitAudit(ctx, AuditRecord{
		EventType: audit.EventProfileUpdate,
		Email:     saved.Email,
		AccountID: saved.ID,
		Metadata:  changedFields(changes),
	})
	return ProfileResult{Account: saved}
}

func changedFields(c ProfileChanges) map[string]string {
	fields := make([]string, 0, 4)
	if c.FullName != nil {
		fields = append(fields, "fullName")
	}
	if c.StudentID != nil {
		fields = append(fields, "studentId")
	}
	if c.Course != nil {
		fields = append(fields, "course")
	}
	if c.Year != nil {
		fields = append(fields, "year")
	}
	return map[string]string{"fields": strings.Join(fields, ",")}
}
