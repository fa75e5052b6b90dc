package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/greencity/internal/auth/notify"
	"github.com/stretchr/testify/require"
)

// ctxPublisher fails like a real broker write would on a cancelled context.
type ctxPublisher struct {
	notify.Recorder
}

func (p *ctxPublisher) Publish(ctx context.Context, e notify.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.Recorder.Publish(ctx, e)
}

func TestDispatchOutlivesCallerContext(t *testing.T) {
	pub := &ctxPublisher{}
	svc := &EmailService{Publisher: pub}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.SendVerificationEmail(ctx, 7, "Alice", "alice@example.com", "tok", "en", false)

	events := pub.Events()
	require.Len(t, events, 1)
	require.Equal(t, notify.EventVerifyEmail, events[0].Type)
	require.Equal(t, "tok", events[0].Token)
	require.False(t, events[0].OccurredAt.IsZero())
}

func TestDispatchWithoutPublisher(t *testing.T) {
	var svc *EmailService
	require.NotPanics(t, func() {
		svc.SendRestoreEmail(context.Background(), 1, "Bob", "bob@example.com", "tok", "en", false)
	})
}
