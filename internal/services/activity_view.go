package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"activitysignup/internal/domain"
	"activitysignup/internal/telemetry"
)

// Notice texts used when the server gives no usable message.
const (
	MissingInputText        = "Please choose an activity and enter an email."
	GenericErrorText        = "An error occurred"
	SignupFailedText        = "Failed to sign up. Please try again."
	UnregisterFailedText    = "Failed to unregister participant. Please try again."
	ConfirmationMissingText = "Please confirm the removal before continuing."
)

type activityViewService struct {
	logger        *slog.Logger
	client        domain.ActivityClient
	confirmations domain.ConfirmationIssuer
	receipts      domain.ReceiptService
	metrics       *telemetry.Metrics
}

// NewActivityViewService creates the activity view controller. receipts and
// metrics may be nil.
func NewActivityViewService(
	logger *slog.Logger,
	client domain.ActivityClient,
	confirmations domain.ConfirmationIssuer,
	receipts domain.ReceiptService,
	metrics *telemetry.Metrics,
) domain.ActivityViewService {
	return &activityViewService{
		logger:        logger,
		client:        client,
		confirmations: confirmations,
		receipts:      receipts,
		metrics:       metrics,
	}
}

func (s *activityViewService) Refresh(ctx context.Context) domain.View {
	catalog, err := s.client.ListActivities(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "error fetching activities", "err", err)
		s.metrics.CountRefresh(string(domain.ViewFailed))
		return domain.FailedView()
	}
	s.metrics.CountRefresh(string(domain.ViewPopulated))
	return domain.NewView(catalog)
}

func (s *activityViewService) Signup(ctx context.Context, email, activity string) domain.Notice {
	if strings.TrimSpace(email) == "" || activity == "" {
		return s.notice("signup", domain.NoticeError, MissingInputText)
	}

	msg, err := s.client.Signup(ctx, activity, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "error signing up", "activity", activity, "err", err)
		return s.notice("signup", domain.NoticeError, failureText(err, SignupFailedText, false))
	}
	if msg == "" {
		msg = fmt.Sprintf("Signed up %s for %s", email, activity)
	}

	if s.receipts != nil {
		data := &domain.ReceiptEmailData{Email: email, Activity: activity, Message: msg}
		if err := s.receipts.SendSignupReceipt(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "signup receipt not sent", "activity", activity, "err", err)
		}
	}
	return s.notice("signup", domain.NoticeSuccess, msg)
}

func (s *activityViewService) RequestUnregister(ctx context.Context, email, activity string) (domain.Confirmation, error) {
	if strings.TrimSpace(email) == "" || activity == "" {
		return domain.Confirmation{}, fmt.Errorf("%w: activity and email are required", domain.ErrInvalidInput)
	}
	c, err := s.confirmations.Issue(activity, email)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("issue confirmation: %w", err)
	}
	return c, nil
}

func (s *activityViewService) Unregister(ctx context.Context, email, activity, token string) domain.Notice {
	if strings.TrimSpace(email) == "" || activity == "" {
		return s.notice("unregister", domain.NoticeError, MissingInputText)
	}
	if err := s.confirmations.Verify(ctx, token, activity, email); err != nil {
		s.logger.InfoContext(ctx, "unregister without valid confirmation", "activity", activity, "err", err)
		return s.notice("unregister", domain.NoticeError, ConfirmationMissingText)
	}

	msg, err := s.client.Unregister(ctx, activity, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "error unregistering participant", "activity", activity, "err", err)
		return s.notice("unregister", domain.NoticeError, failureText(err, UnregisterFailedText, true))
	}
	if msg == "" {
		msg = fmt.Sprintf("Unregistered %s from %s", email, activity)
	}

	if s.receipts != nil {
		data := &domain.ReceiptEmailData{Email: email, Activity: activity, Message: msg}
		if err := s.receipts.SendUnregisterReceipt(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "unregister receipt not sent", "activity", activity, "err", err)
		}
	}
	return s.notice("unregister", domain.NoticeSuccess, msg)
}

func (s *activityViewService) notice(action string, kind domain.NoticeKind, msg string) domain.Notice {
	s.metrics.CountNotice(action, string(kind))
	return domain.NewNotice(kind, msg)
}

// failureText converts a client error into the user-visible text. Rejections
// show the server detail (or message when useMessage is set) and anything
// else shows fallback.
func failureText(err error, fallback string, useMessage bool) string {
	if rej, ok := domain.AsRejection(err); ok {
		switch {
		case rej.Detail != "":
			return rej.Detail
		case useMessage && rej.Message != "":
			return rej.Message
		default:
			return GenericErrorText
		}
	}
	return fallback
}
