package protocol

// Label is a tracker label attached to a ticket.
type Label struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// IsZero reports whether the label carries no data. Categories without a
// configured label produce zero labels, which are never sent to the tracker.
func (l Label) IsZero() bool {
	return l.ExternalID == "" && l.Name == ""
}

// TicketDraft is the pre-creation shape of a ticket, assembled by the
// relay builder before the tracker assigns an ID.
type TicketDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RequesterID string  `json:"requester_id,omitempty"` // tracker member ID; empty when unresolved
	Type        string  `json:"type"`
	Labels      []Label `json:"labels"`
	Category    string  `json:"category"`
	ReporterID  string  `json:"reporter_id"` // Slack user ID, carried for confirmation routing
}

// Ticket is a ticket as known to the remote tracker, plus the relay's
// routing fields. The ID is opaque; each tracker backend owns its format.
type Ticket struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RequesterID string  `json:"requester_id,omitempty"`
	Type        string  `json:"type"`
	Labels      []Label `json:"labels"`
	URL         string  `json:"url"`
	Category    string  `json:"category,omitempty"`
	ReporterID  string  `json:"reporter_id,omitempty"`
}

// EscalationResult is the outcome of a red-alert escalation: the ticket
// after its labels were updated, and the channel the alert should go to.
// Channel is empty when no label on the ticket resolved to one.
type EscalationResult struct {
	Ticket  *Ticket `json:"ticket"`
	Channel string  `json:"channel,omitempty"`
}
