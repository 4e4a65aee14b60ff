// Package identity resolves a Slack user to their profile and that
// profile's email to a tracker member ID. Nothing is cached: member lists
// are small, and a stale mapping is worse than an extra fetch.
package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/jeffvincent/bug-bot/internal/tracker"
	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// SlackAPI is the slice of the Slack Web API the resolver needs.
type SlackAPI interface {
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
}

// MemberLister fetches the tracker's member list.
type MemberLister interface {
	ListMembers(ctx context.Context) ([]tracker.Member, error)
}

// LookupError means the chat platform lookup failed or returned no
// profile. A ticket is never created for a user we cannot name.
type LookupError struct {
	UserID string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("identity: no profile for user %s", e.UserID)
	}
	return fmt.Sprintf("identity: lookup user %s: %v", e.UserID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Resolver maps chat-platform users to tracker members.
type Resolver struct {
	slack   SlackAPI
	members MemberLister
	logger  *slog.Logger
}

// NewResolver creates a resolver over the given Slack API and tracker.
func NewResolver(api SlackAPI, members MemberLister, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{slack: api, members: members, logger: logger}
}

// ResolveIdentity fetches the user's display name and email from Slack.
func (r *Resolver) ResolveIdentity(ctx context.Context, userID string) (protocol.Identity, error) {
	user, err := r.slack.GetUserInfoContext(ctx, userID)
	if err != nil {
		return protocol.Identity{}, &LookupError{UserID: userID, Err: err}
	}
	if user == nil {
		return protocol.Identity{}, &LookupError{UserID: userID}
	}
	return protocol.Identity{
		DisplayName: user.Profile.RealNameNormalized,
		Email:       user.Profile.Email,
	}, nil
}

// ResolveMemberID finds the tracker member whose email matches exactly,
// first match in listing order. An empty string (not an error) means no
// member matched; ticket creation tolerates an absent requester.
func (r *Resolver) ResolveMemberID(ctx context.Context, email string) (string, error) {
	members, err := r.members.ListMembers(ctx)
	if err != nil {
		return "", fmt.Errorf("identity: list members: %w", err)
	}
	for _, m := range members {
		if m.Email == email {
			return m.ID, nil
		}
	}
	r.logger.Debug("no tracker member for email", "email", email)
	return "", nil
}
