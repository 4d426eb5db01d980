// Package slack is the outbound side of the bot: it posts reminders with
// confirm/skip buttons, rewrites them once answered and sends ephemeral
// notices. Every call goes through one token bucket.
package slack

import (
	"context"
	"fmt"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

const actionBlockID = "rotation_actions"

var _ contract.Notifier = (*Notifier)(nil)

type Notifier struct {
	client    contract.SlackClient
	channelID string
	limiter   *rate.Limiter
	log       *logrus.Entry
}

func NewNotifier(client contract.SlackClient, channelID string, limiter *rate.Limiter, log *logrus.Entry) *Notifier {
	return &Notifier{
		client:    client,
		channelID: channelID,
		limiter:   limiter,
		log:       log,
	}
}

// Send posts the reminder for recipient to the configured channel.
func (n *Notifier) Send(ctx context.Context, recipient string, reminder entity.Reminder) (entity.NotificationHandle, error) {
	if err := n.wait(ctx); err != nil {
		return entity.NotificationHandle{}, err
	}

	channel, ts, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(reminderText(recipient, reminder.Role), false),
		slack.MsgOptionBlocks(ReminderBlocks(recipient, reminder)...),
		slack.MsgOptionAsUser(false),
	)
	if err != nil {
		return entity.NotificationHandle{}, fmt.Errorf("failed to send Slack message: %w", err)
	}

	n.log.Debugf("Reminder posted to %s at %s", channel, ts)
	return entity.NotificationHandle{ChannelID: channel, MessageTS: ts}, nil
}

// Update replaces the reminder with plain text, which also removes its buttons.
func (n *Notifier) Update(ctx context.Context, handle entity.NotificationHandle, text string) error {
	if err := n.wait(ctx); err != nil {
		return err
	}

	section := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)

	_, _, _, err := n.client.UpdateMessageContext(ctx, handle.ChannelID, handle.MessageTS,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(section),
	)
	if err != nil {
		return fmt.Errorf("failed to update Slack message: %w", err)
	}
	return nil
}

// Notice sends a message only userID can see.
func (n *Notifier) Notice(ctx context.Context, channelID, userID, text string) error {
	if err := n.wait(ctx); err != nil {
		return err
	}

	if _, err := n.client.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to send ephemeral message: %w", err)
	}
	return nil
}

// CheckAuth validates the bot token and returns the bot's own user ID.
func (n *Notifier) CheckAuth(ctx context.Context) (string, error) {
	resp, err := n.client.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("slack auth test failed: %w", err)
	}
	return resp.UserID, nil
}

func (n *Notifier) wait(ctx context.Context) error {
	if n.limiter == nil {
		return nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", domain.ErrNotificationDelivery, err)
	}
	return nil
}

// ReminderBlocks renders the reminder and its two buttons. Both buttons carry
// the cycle ID so a press can be matched to the reminder it belongs to.
func ReminderBlocks(recipient string, reminder entity.Reminder) []slack.Block {
	text := slack.NewTextBlockObject(slack.MarkdownType, reminderText(recipient, reminder.Role), false, false)

	confirm := slack.NewButtonBlockElement(domain.ActionIDConfirm, reminder.CycleID,
		slack.NewTextBlockObject(slack.PlainTextType, "Confirm", false, false)).
		WithStyle(slack.StylePrimary)

	skip := slack.NewButtonBlockElement(domain.ActionIDSkip, reminder.CycleID,
		slack.NewTextBlockObject(slack.PlainTextType, "Skip", false, false)).
		WithStyle(slack.StyleDanger)

	return []slack.Block{
		slack.NewSectionBlock(text, nil, nil),
		slack.NewActionBlock(actionBlockID, confirm, skip),
	}
}

func reminderText(recipient, role string) string {
	return fmt.Sprintf("🎯 *Rotation Reminder*\n\n%s today: <@%s>\n\nConfirm if you've got it, or skip to pass it to the next person.", role, recipient)
}
