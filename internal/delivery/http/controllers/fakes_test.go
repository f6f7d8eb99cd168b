package controllers

import (
	"context"
	"io"
	"log/slog"

	"activitysignup/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeViewService implements domain.ActivityViewService for handler tests.
type fakeViewService struct {
	view          domain.View
	signupNotice  domain.Notice
	unregNotice   domain.Notice
	confirmation  domain.Confirmation
	confirmErr    error
	refreshCalls  int
	lastEmail     string
	lastActivity  string
	lastToken     string
	signupCalls   int
	unregCalls    int
	requestsCalls int
}

func (f *fakeViewService) Refresh(ctx context.Context) domain.View {
	f.refreshCalls++
	return f.view
}

func (f *fakeViewService) Signup(ctx context.Context, email, activity string) domain.Notice {
	f.signupCalls++
	f.lastEmail, f.lastActivity = email, activity
	return f.signupNotice
}

func (f *fakeViewService) RequestUnregister(ctx context.Context, email, activity string) (domain.Confirmation, error) {
	f.requestsCalls++
	f.lastEmail, f.lastActivity = email, activity
	return f.confirmation, f.confirmErr
}

func (f *fakeViewService) Unregister(ctx context.Context, email, activity, token string) domain.Notice {
	f.unregCalls++
	f.lastEmail, f.lastActivity, f.lastToken = email, activity, token
	return f.unregNotice
}
