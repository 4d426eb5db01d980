package contract

//go:generate mockgen -source=slack.go -destination=../../../mocks/slack.go -package=mocks

import (
	"context"

	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	"github.com/slack-go/slack"
)

// SlackClient defines the interface for Slack operations
// This allows mocking in tests while keeping the real implementation simple
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// Notifier is the outbound side of the reminder cycle.
type Notifier interface {
	Send(ctx context.Context, recipient string, reminder entity.Reminder) (entity.NotificationHandle, error)
	Update(ctx context.Context, handle entity.NotificationHandle, text string) error
	Notice(ctx context.Context, channelID, userID, text string) error
}
