package relay

import (
	"context"
	"fmt"

	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// Escalate runs the red-alert workflow for an existing ticket: fetch,
// reverse-map its labels to categories, re-add canonical label data,
// append the escalation label, persist, announce.
//
// Channel selection is last-label-wins: the last label that resolves to a
// category with a channel picks the alert's destination. That quirk is
// inherited and pinned by tests; changing it to a priority policy is a
// deliberate future edit.
//
// Concurrent escalations on the same ticket may race: the label
// read-modify-write is not atomic. Known limitation.
func (s *Service) Escalate(ctx context.Context, raisedBy, ticketID string) (*protocol.EscalationResult, error) {
	ticket, err := s.store.Fetch(ctx, ticketID)
	if err != nil {
		s.metrics.EscalationFailed()
		return nil, fmt.Errorf("relay: fetch ticket %s: %w", ticketID, err)
	}

	var labels []protocol.Label
	var channel, lastCategory string
	for _, l := range ticket.Labels {
		code, err := s.categories.FromLabelName(l.Name)
		if err != nil {
			// Per-label failures never abort the escalation.
			s.logger.Warn("skipping unrecognized label", "ticket", ticketID, "label", l.Name)
			continue
		}
		// Re-add canonical label data rather than trusting the
		// fetched label verbatim.
		canonical, _ := s.categories.LabelFor(code)
		if !canonical.IsZero() {
			labels = append(labels, canonical)
		}
		lastCategory = code
		if ch := s.categories.ChannelFor(code); ch != "" {
			channel = ch
		}
	}
	labels = append(labels, s.categories.EscalationLabel())

	updated, err := s.store.UpdateLabels(ctx, ticketID, labels)
	if err != nil {
		// The ticket was fetched but not updated; this is not a
		// completed escalation.
		s.metrics.EscalationFailed()
		return nil, fmt.Errorf("relay: update labels on ticket %s: %w", ticketID, err)
	}
	updated.Category = lastCategory

	res := &protocol.EscalationResult{Ticket: updated, Channel: channel}
	s.metrics.EscalationRaised()
	s.logger.Info("red alert raised", "ticket", ticketID, "channel", channel, "raised_by", raisedBy)

	if err := s.notify.RedAlertRaised(ctx, raisedBy, res); err != nil {
		s.metrics.NotifyFailed()
		s.logger.Error("red alert post failed", "ticket", ticketID, "error", err)
	}
	return res, nil
}
