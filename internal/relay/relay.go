// Package relay implements the submission-to-ticket pipeline and the
// red-alert escalation workflow. Each inbound request runs one strictly
// sequential chain of remote calls; the only state shared across requests
// is the read-only category registry.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jeffvincent/bug-bot/internal/category"
	"github.com/jeffvincent/bug-bot/internal/identity"
	"github.com/jeffvincent/bug-bot/internal/metrics"
	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// reproSeparator joins a submission's description and its reproduction
// steps in the created ticket.
const reproSeparator = "\n\n---\n Steps to Reproduce \n "

// TicketStore is the slice of the tracker the pipeline needs.
type TicketStore interface {
	Create(ctx context.Context, draft *protocol.TicketDraft) (*protocol.Ticket, error)
	Fetch(ctx context.Context, id string) (*protocol.Ticket, error)
	UpdateLabels(ctx context.Context, id string, labels []protocol.Label) (*protocol.Ticket, error)
}

// Resolver maps a chat user to an identity and an identity to a tracker
// member.
type Resolver interface {
	ResolveIdentity(ctx context.Context, userID string) (protocol.Identity, error)
	ResolveMemberID(ctx context.Context, email string) (string, error)
}

// Notifier posts pipeline outcomes back to the chat platform.
type Notifier interface {
	TicketCreated(ctx context.Context, t *protocol.Ticket) error
	RedAlertRaised(ctx context.Context, raisedBy string, res *protocol.EscalationResult) error
}

// Service orchestrates ticket creation and escalation.
type Service struct {
	store      TicketStore
	identity   Resolver
	categories *category.Registry
	notify     Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewService creates the relay service. metrics may be nil.
func NewService(store TicketStore, resolver Resolver, categories *category.Registry, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		identity:   resolver,
		categories: categories,
		notify:     notifier,
		logger:     logger,
		metrics:    m,
	}
}

// Build assembles the pre-creation ticket draft. The category is
// validated first so a bad submission never reaches the network; identity
// and member resolution then run in order, each suspending on the prior.
func (s *Service) Build(ctx context.Context, userID string, sub protocol.Submission) (*protocol.TicketDraft, error) {
	label, err := s.categories.LabelFor(sub.Category)
	if err != nil {
		return nil, err
	}

	id, err := s.identity.ResolveIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}

	memberID, err := s.identity.ResolveMemberID(ctx, id.Email)
	if err != nil {
		return nil, err
	}

	draft := &protocol.TicketDraft{
		Name:        sub.Title,
		Description: composeDescription(sub),
		RequesterID: memberID,
		Type:        "bug",
		Category:    sub.Category,
		ReporterID:  userID,
	}
	if !label.IsZero() {
		draft.Labels = []protocol.Label{label}
	}
	return draft, nil
}

// CreateTicket runs the full creation pipeline: build, create in the
// tracker, then confirm in Slack. Confirmation failures are logged and
// never propagated.
func (s *Service) CreateTicket(ctx context.Context, userID string, sub protocol.Submission) (*protocol.Ticket, error) {
	draft, err := s.Build(ctx, userID, sub)
	if err != nil {
		s.metrics.TicketFailed(buildStage(err))
		return nil, err
	}

	ticket, err := s.store.Create(ctx, draft)
	if err != nil {
		s.metrics.TicketFailed("create")
		return nil, fmt.Errorf("relay: create ticket: %w", err)
	}
	ticket.Category = draft.Category
	ticket.ReporterID = draft.ReporterID

	s.metrics.TicketCreated(ticket.Category)
	s.logger.Info("ticket created", "ticket", ticket.ID, "category", ticket.Category, "reporter", userID)

	if err := s.notify.TicketCreated(ctx, ticket); err != nil {
		s.metrics.NotifyFailed()
		s.logger.Error("confirmation post failed", "ticket", ticket.ID, "error", err)
	}
	return ticket, nil
}

func composeDescription(sub protocol.Submission) string {
	if sub.ReproSteps == "" {
		return sub.Description
	}
	return sub.Description + reproSeparator + sub.ReproSteps
}

// buildStage names the pipeline stage a build error belongs to, for the
// failure counter.
func buildStage(err error) string {
	var lookupErr *identity.LookupError
	switch {
	case errors.Is(err, category.ErrUnknownCategory):
		return "category"
	case errors.As(err, &lookupErr):
		return "identity"
	default:
		return "member"
	}
}
