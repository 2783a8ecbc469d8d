package portalAuth

import (
	"context"

	internalflows "github.com/leanda/portalAuth/internal/flows"
)

const (
	dashboardMessage = "Welcome to your dashboard"
	courseNotSet     = "Not set"
)

// Profile returns the account owned by email, normally the email of an
// authorized [Identity].
func (e *Engine) Profile(ctx context.Context, email string) (AccountView, error) {
	if !e.ready() {
		return AccountView{}, notReady()
	}
	return e.profileResult(ctx, e.flows.Profile(ctx, email))
}

// UpdateProfile applies u to the account owned by email. Only full name,
// student ID, course and year can change; an empty full name is rejected with
// KindInvalidAccount. The store refreshes UpdatedAt.
func (e *Engine) UpdateProfile(ctx context.Context, email string, u ProfileUpdate) (AccountView, error) {
	if !e.ready() {
		return AccountView{}, notReady()
	}
	return e.profileResult(ctx, e.flows.UpdateProfile(ctx, email, internalflows.ProfileChanges(u)))
}

// Dashboard builds the landing summary for the account owned by email.
func (e *Engine) Dashboard(ctx context.Context, email string) (Dashboard, error) {
	view, err := e.Profile(ctx, email)
	if err != nil {
		return Dashboard{}, err
	}

	course := view.Course
	if course == "" {
		course = courseNotSet
	}
	return Dashboard{
		Message: dashboardMessage,
		User: DashboardUser{
			FullName: view.FullName,
			Course:   course,
			Year:     view.Year,
		},
	}, nil
}

func (e *Engine) profileResult(ctx context.Context, res internalflows.ProfileResult) (AccountView, error) {
	if res.Failure != internalflows.FailureNone {
		if res.Failure == internalflows.FailureUnavailable {
			e.logger.ErrorContext(ctx, "profile operation failed", "error", res.Err)
		}
		return AccountView{}, authErrorFromFailure(res.Failure, res.Reason, res.Err)
	}
	return accountFromRecord(res.Account).View(), nil
}
