package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// ShortcutStore talks to a Shortcut-style stories API.
type ShortcutStore struct {
	client    *http.Client
	baseURL   string
	token     string
	projectID int64
	workspace string
}

// ShortcutOption configures a ShortcutStore.
type ShortcutOption func(*ShortcutStore)

// WithShortcutBaseURL sets a custom API base URL.
func WithShortcutBaseURL(url string) ShortcutOption {
	return func(s *ShortcutStore) { s.baseURL = url }
}

// WithShortcutWorkspace sets the workspace slug used in story URLs.
func WithShortcutWorkspace(workspace string) ShortcutOption {
	return func(s *ShortcutStore) { s.workspace = workspace }
}

// WithShortcutHTTPClient sets a custom HTTP client.
func WithShortcutHTTPClient(c *http.Client) ShortcutOption {
	return func(s *ShortcutStore) { s.client = c }
}

// NewShortcut creates a Shortcut store client. Stories are created in the
// given project.
func NewShortcut(token string, projectID int64, opts ...ShortcutOption) *ShortcutStore {
	s := &ShortcutStore{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   "https://api.app.shortcut.com/api/v3",
		token:     token,
		projectID: projectID,
		workspace: "appcues",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ShortcutStore) Name() string { return "shortcut" }

func (s *ShortcutStore) Create(ctx context.Context, draft *protocol.TicketDraft) (*protocol.Ticket, error) {
	body := createStoryRequest{
		Name:          draft.Name,
		Description:   draft.Description,
		ProjectID:     s.projectID,
		RequestedByID: draft.RequesterID,
		StoryType:     draft.Type,
		Labels:        toStoryLabels(draft.Labels),
	}

	var story storyResponse
	if err := s.do(ctx, http.MethodPost, "/stories", body, &story); err != nil {
		return nil, err
	}
	return s.toTicket(&story), nil
}

func (s *ShortcutStore) Fetch(ctx context.Context, id string) (*protocol.Ticket, error) {
	storyID, err := parseStoryID(id)
	if err != nil {
		return nil, err
	}

	var story storyResponse
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/stories/%d", storyID), nil, &story); err != nil {
		return nil, err
	}
	return s.toTicket(&story), nil
}

func (s *ShortcutStore) UpdateLabels(ctx context.Context, id string, labels []protocol.Label) (*protocol.Ticket, error) {
	storyID, err := parseStoryID(id)
	if err != nil {
		return nil, err
	}

	body := updateStoryRequest{Labels: toStoryLabels(labels)}
	var story storyResponse
	if err := s.do(ctx, http.MethodPut, fmt.Sprintf("/stories/%d", storyID), body, &story); err != nil {
		return nil, err
	}
	return s.toTicket(&story), nil
}

func (s *ShortcutStore) ListMembers(ctx context.Context) ([]Member, error) {
	var members []memberResponse
	if err := s.do(ctx, http.MethodGet, "/members", nil, &members); err != nil {
		return nil, err
	}

	result := make([]Member, 0, len(members))
	for _, m := range members {
		result = append(result, Member{
			ID:    m.ID,
			Name:  m.Profile.Name,
			Email: m.Profile.EmailAddress,
		})
	}
	return result, nil
}

func (s *ShortcutStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("shortcut: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("shortcut: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Shortcut-Token", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("shortcut: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("shortcut: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("shortcut: unmarshal response: %w", err)
	}
	return nil
}

func (s *ShortcutStore) toTicket(story *storyResponse) *protocol.Ticket {
	labels := make([]protocol.Label, 0, len(story.Labels))
	for _, l := range story.Labels {
		labels = append(labels, protocol.Label{ExternalID: l.ExternalID, Name: l.Name})
	}
	return &protocol.Ticket{
		ID:          strconv.FormatInt(story.ID, 10),
		Name:        story.Name,
		Description: story.Description,
		RequesterID: story.RequestedByID,
		Type:        story.StoryType,
		Labels:      labels,
		URL:         fmt.Sprintf("https://app.shortcut.com/%s/story/%d", s.workspace, story.ID),
	}
}

func parseStoryID(id string) (int64, error) {
	storyID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shortcut: invalid story id %q: %w", id, err)
	}
	return storyID, nil
}

func toStoryLabels(labels []protocol.Label) []storyLabel {
	out := make([]storyLabel, 0, len(labels))
	for _, l := range labels {
		out = append(out, storyLabel{ExternalID: l.ExternalID, Name: l.Name})
	}
	return out
}

// --- Shortcut wire format types ---

type storyLabel struct {
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name"`
}

type createStoryRequest struct {
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	ProjectID     int64        `json:"project_id"`
	RequestedByID string       `json:"requested_by_id,omitempty"`
	StoryType     string       `json:"story_type"`
	Labels        []storyLabel `json:"labels"`
}

type updateStoryRequest struct {
	Labels []storyLabel `json:"labels"`
}

type storyResponse struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	RequestedByID string       `json:"requested_by_id"`
	StoryType     string       `json:"story_type"`
	Labels        []storyLabel `json:"labels"`
}

type memberResponse struct {
	ID      string `json:"id"`
	Profile struct {
		Name         string `json:"name"`
		EmailAddress string `json:"email_address"`
	} `json:"profile"`
}
