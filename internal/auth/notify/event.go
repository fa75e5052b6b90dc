// Package notify carries account email events to whatever renders and
// sends the mail.
package notify

import (
	"context"
	"time"
)

type EventType string

const (
	EventVerifyEmail     EventType = "VERIFY_EMAIL"
	EventRestorePassword EventType = "RESTORE_PASSWORD"
	EventApproval        EventType = "APPROVAL"
	EventDeactivation    EventType = "DEACTIVATION"
	EventActivation      EventType = "ACTIVATION"
)

// Event is one mail to send. Token is the plaintext single-use token and is
// only set for verify, restore and approval mails.
type Event struct {
	Type       EventType `json:"type"`
	UserID     int64     `json:"userId,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Token      string    `json:"token,omitempty"`
	Lang       string    `json:"lang,omitempty"`
	IsUbs      bool      `json:"isUbs,omitempty"`
	Reasons    []string  `json:"reasons,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher hands events to a transport.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}
