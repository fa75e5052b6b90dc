package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/notify"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
)

// EmailService turns account events into notify.Events. Sending is fire
// and forget: failures are logged and never returned.
type EmailService struct {
	Publisher notify.Publisher
}

func (s *EmailService) dispatch(ctx context.Context, e notify.Event) {
	if s == nil || s.Publisher == nil {
		return
	}
	e.OccurredAt = time.Now().UTC()
	// The account change is already committed; a caller hanging up must
	// not cancel the mail. The publisher bounds the write itself.
	if err := s.Publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		slogx.FromContext(ctx).Warn("failed to dispatch email",
			slog.String("type", string(e.Type)),
			slog.String("email", e.Email),
			slog.Any("error", err),
		)
	}
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, userID int64, name, email, token, lang string, isUbs bool) {
	s.dispatch(ctx, notify.Event{Type: notify.EventVerifyEmail, UserID: userID, Name: name, Email: email, Token: token, Lang: lang, IsUbs: isUbs})
}

func (s *EmailService) SendRestoreEmail(ctx context.Context, userID int64, name, email, token, lang string, isUbs bool) {
	s.dispatch(ctx, notify.Event{Type: notify.EventRestorePassword, UserID: userID, Name: name, Email: email, Token: token, Lang: lang, IsUbs: isUbs})
}

// SendApprovalEmail invites a user registered by an administrator to set
// a password.
func (s *EmailService) SendApprovalEmail(ctx context.Context, userID int64, name, email, token string) {
	s.dispatch(ctx, notify.Event{Type: notify.EventApproval, UserID: userID, Name: name, Email: email, Token: token})
}

func (s *EmailService) SendReasonOfDeactivation(ctx context.Context, name, email string, reasons []string, lang string) {
	s.dispatch(ctx, notify.Event{Type: notify.EventDeactivation, Name: name, Email: email, Reasons: reasons, Lang: lang})
}

func (s *EmailService) SendMessageOfActivation(ctx context.Context, name, email, lang string) {
	s.dispatch(ctx, notify.Event{Type: notify.EventActivation, Name: name, Email: email, Lang: lang})
}
