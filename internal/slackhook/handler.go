// Package slackhook handles the inbound Slack callbacks: slash commands,
// message actions, dialog submissions, and interactive button clicks.
// Every request inside the trust boundary is gated on the shared
// verification token, compared by exact string equality.
package slackhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/jeffvincent/bug-bot/internal/notify"
	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// DialogOpener opens a Slack dialog within the synchronous request window.
type DialogOpener interface {
	OpenDialogContext(ctx context.Context, triggerID string, dialog slack.Dialog) error
}

// Pipeline is the relay surface the handlers drive.
type Pipeline interface {
	CreateTicket(ctx context.Context, userID string, sub protocol.Submission) (*protocol.Ticket, error)
	Escalate(ctx context.Context, raisedBy, ticketID string) (*protocol.EscalationResult, error)
}

// Handler serves the Slack webhook endpoints.
type Handler struct {
	token    string
	dialogs  DialogOpener
	pipeline Pipeline
	logger   *slog.Logger

	// spawn runs the detached pipeline work. Tests replace it to run
	// synchronously.
	spawn func(func())
}

// New creates a handler. token is the Slack verification token.
func New(token string, dialogs DialogOpener, pipeline Pipeline, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		token:    token,
		dialogs:  dialogs,
		pipeline: pipeline,
		logger:   logger,
		spawn:    func(f func()) { go f() },
	}
}

// HandleCommand receives the slash command and opens the report dialog.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "invalid slash command payload", http.StatusBadRequest)
		return
	}

	if cmd.Token != h.token {
		h.logger.Warn("verification token mismatch", "endpoint", "command")
		http.Error(w, "verification failed", http.StatusInternalServerError)
		return
	}

	if err := h.dialogs.OpenDialogContext(r.Context(), cmd.TriggerID, reportDialog(cmd.Text)); err != nil {
		h.logger.Error("dialog open failed", "user", cmd.UserID, "error", err)
		http.Error(w, "dialog open failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleInteraction receives dialog submissions, message actions, and
// button clicks from the interactive components endpoint.
func (h *Handler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	payload := r.FormValue("payload")
	if payload == "" {
		http.Error(w, "missing payload", http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if callback.Token != h.token {
		h.logger.Warn("verification token mismatch", "endpoint", "interaction")
		http.Error(w, "verification failed", http.StatusInternalServerError)
		return
	}

	switch callback.Type {
	case slack.InteractionTypeMessageAction:
		h.openFromMessageAction(w, r, callback)
	case slack.InteractionTypeDialogSubmission:
		h.acceptSubmission(w, callback)
	case slack.InteractionTypeInteractionMessage:
		h.acceptRedAlert(w, callback)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// openFromMessageAction opens the report dialog prefilled from the
// message the action was invoked on.
func (h *Handler) openFromMessageAction(w http.ResponseWriter, r *http.Request, callback slack.InteractionCallback) {
	if err := h.dialogs.OpenDialogContext(r.Context(), callback.TriggerID, reportDialog(callback.Message.Text)); err != nil {
		h.logger.Error("dialog open failed", "user", callback.User.ID, "error", err)
		http.Error(w, "dialog open failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// acceptSubmission acks the dialog submission immediately and runs the
// creation pipeline detached from the request.
func (h *Handler) acceptSubmission(w http.ResponseWriter, callback slack.InteractionCallback) {
	w.WriteHeader(http.StatusOK)

	sub := protocol.Submission{
		Title:       callback.Submission["title"],
		Category:    callback.Submission["category"],
		Description: callback.Submission["description"],
		ReproSteps:  callback.Submission["description_reproduce"],
	}
	userID := callback.User.ID

	h.spawn(func() {
		// The inbound request is already acknowledged; no cancellation
		// crosses this boundary.
		ctx := context.Background()
		if _, err := h.pipeline.CreateTicket(ctx, userID, sub); err != nil {
			h.logger.Error("ticket creation failed", "user", userID, "error", err)
		}
	})
}

// acceptRedAlert handles the escalation button. Only a click whose action
// value is the literal "true" proceeds.
func (h *Handler) acceptRedAlert(w http.ResponseWriter, callback slack.InteractionCallback) {
	actions := callback.ActionCallback.AttachmentActions
	if len(actions) == 0 || actions[0].Value != "true" {
		w.WriteHeader(http.StatusOK)
		return
	}

	ticketID, ok := notify.TicketIDFromCallback(callback.CallbackID)
	if !ok {
		h.logger.Warn("unrecognized interactive callback", "callback_id", callback.CallbackID)
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusOK)

	userID := callback.User.ID
	h.spawn(func() {
		ctx := context.Background()
		if _, err := h.pipeline.Escalate(ctx, userID, ticketID); err != nil {
			h.logger.Error("escalation failed", "ticket", ticketID, "user", userID, "error", err)
		}
	})
}
