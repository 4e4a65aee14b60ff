// Package tracker contains thin clients for the remote issue trackers a
// report can be relayed to. Every call is a single pass-through HTTP
// request; nothing is cached or retried here.
package tracker

import (
	"context"
	"fmt"

	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// Store is the call surface the relay needs from a tracker backend.
type Store interface {
	// Name returns the backend name (e.g., "shortcut", "trello").
	Name() string
	// Create creates a ticket from the draft and returns the canonical
	// ticket with its tracker-assigned ID and URL.
	Create(ctx context.Context, draft *protocol.TicketDraft) (*protocol.Ticket, error)
	// Fetch retrieves a ticket by ID. Reads never mutate tracker state.
	Fetch(ctx context.Context, id string) (*protocol.Ticket, error)
	// UpdateLabels replaces the ticket's label set and returns the
	// updated ticket.
	UpdateLabels(ctx context.Context, id string, labels []protocol.Label) (*protocol.Ticket, error)
	// ListMembers returns the tracker's full member list.
	ListMembers(ctx context.Context) ([]Member, error)
}

// Member is a tracker member, normalized across backends. Email may be
// empty for backends that don't expose it.
type Member struct {
	ID    string
	Name  string
	Email string
}

// APIError is a non-2xx response from a tracker API, carrying the remote
// status and body for the log line. Tracker availability is not this
// system's responsibility, so these are never retried.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracker api error (status %d): %s", e.StatusCode, e.Body)
}
