// Package notify posts confirmation and red-alert messages to Slack.
// Posts are fire-and-forget relative to the pipeline that triggered them:
// the caller logs failures but never propagates them back to the inbound
// interaction, which Slack already acknowledged.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// redAlertCallbackPrefix keys the escalation button to its ticket.
const redAlertCallbackPrefix = "red_alert_"

// RedAlertCallbackID builds the interactive callback ID for a ticket.
func RedAlertCallbackID(ticketID string) string {
	return redAlertCallbackPrefix + ticketID
}

// TicketIDFromCallback extracts the ticket ID from a red-alert callback
// ID. ok is false when the callback ID carries a different prefix.
func TicketIDFromCallback(callbackID string) (string, bool) {
	id, ok := strings.CutPrefix(callbackID, redAlertCallbackPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// SlackPoster is the slice of the Slack Web API the notifier needs.
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Config holds notification routing. DebugMode is resolved once at
// startup; when set, every post lands in DebugChannel.
type Config struct {
	ConfirmationChannel string
	DebugChannel        string
	DebugMode           bool
}

// Notifier posts pipeline messages to Slack.
type Notifier struct {
	slack  SlackPoster
	cfg    Config
	logger *slog.Logger
}

// New creates a notifier.
func New(api SlackPoster, cfg Config, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{slack: api, cfg: cfg, logger: logger}
}

// TicketCreated posts the creation confirmation, including the red-alert
// button keyed to the ticket ID.
func (n *Notifier) TicketCreated(ctx context.Context, t *protocol.Ticket) error {
	channel := n.cfg.ConfirmationChannel
	if n.cfg.DebugMode {
		channel = n.cfg.DebugChannel
	}

	description := t.Description
	if description == "" {
		description = "None provided"
	}

	attachments := []slack.Attachment{
		{
			Title:     t.Name,
			TitleLink: t.URL,
			Fields: []slack.AttachmentField{
				{Title: "Description", Value: description},
			},
		},
		redAlertAttachment(t.ID),
	}

	text := fmt.Sprintf("new issue in the *%s* from <@%s>", t.Category, t.ReporterID)
	_, _, err := n.slack.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAttachments(attachments...),
	)
	if err != nil {
		return fmt.Errorf("notify: confirmation for ticket %s: %w", t.ID, err)
	}

	n.logger.Info("confirmation sent", "ticket", t.ID, "channel", channel)
	return nil
}

// RedAlertRaised announces a completed escalation in the resolved channel.
// When no label on the ticket resolved to a channel, the alert falls back
// to the debug channel rather than going nowhere.
func (n *Notifier) RedAlertRaised(ctx context.Context, raisedBy string, res *protocol.EscalationResult) error {
	channel := res.Channel
	if channel == "" || n.cfg.DebugMode {
		channel = n.cfg.DebugChannel
	}

	t := res.Ticket
	text := fmt.Sprintf("a new red alert has been raised in the *%s* by <@%s>", t.Category, raisedBy)
	attachment := slack.Attachment{
		Title:     t.Name,
		TitleLink: t.URL,
	}

	_, _, err := n.slack.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return fmt.Errorf("notify: red alert for ticket %s: %w", t.ID, err)
	}

	n.logger.Info("red alert sent", "ticket", t.ID, "channel", channel, "raised_by", raisedBy)
	return nil
}

func redAlertAttachment(ticketID string) slack.Attachment {
	return slack.Attachment{
		Fallback:   "You are unable to raise a red alert.",
		CallbackID: RedAlertCallbackID(ticketID),
		Color:      "#F35A00",
		Actions: []slack.AttachmentAction{
			{
				Name:  "yes",
				Text:  "Red Alert!",
				Style: "danger",
				Type:  "button",
				Value: "true",
				Confirm: &slack.ConfirmationField{
					Title:       "Confirm the Red Alert",
					Text:        "This will alert the team responsible for the affected area.",
					OkText:      "Yes, shields up!",
					DismissText: "Nope, just kidding.",
				},
			},
		},
	}
}
