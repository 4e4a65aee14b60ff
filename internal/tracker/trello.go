package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeffvincent/bug-bot/pkg/protocol"
)

// TrelloStore talks to a Trello-style cards API. Cards land on a fixed
// list; the member list comes from the organization.
type TrelloStore struct {
	client  *http.Client
	baseURL string
	key     string
	token   string
	listID  string
	org     string
}

// TrelloOption configures a TrelloStore.
type TrelloOption func(*TrelloStore)

// WithTrelloBaseURL sets a custom API base URL.
func WithTrelloBaseURL(url string) TrelloOption {
	return func(t *TrelloStore) { t.baseURL = url }
}

// WithTrelloHTTPClient sets a custom HTTP client.
func WithTrelloHTTPClient(c *http.Client) TrelloOption {
	return func(t *TrelloStore) { t.client = c }
}

// NewTrello creates a Trello store client.
func NewTrello(key, token, listID, org string, opts ...TrelloOption) *TrelloStore {
	t := &TrelloStore{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.trello.com/1",
		key:     key,
		token:   token,
		listID:  listID,
		org:     org,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TrelloStore) Name() string { return "trello" }

func (t *TrelloStore) Create(ctx context.Context, draft *protocol.TicketDraft) (*protocol.Ticket, error) {
	params := url.Values{}
	params.Set("idList", t.listID)
	params.Set("name", draft.Name)
	params.Set("desc", draft.Description)
	if ids := labelIDs(draft.Labels); ids != "" {
		params.Set("idLabels", ids)
	}
	if draft.RequesterID != "" {
		params.Set("idMembers", draft.RequesterID)
	}

	var card cardResponse
	if err := t.do(ctx, http.MethodPost, "/cards", params, &card); err != nil {
		return nil, err
	}
	return toCardTicket(&card), nil
}

func (t *TrelloStore) Fetch(ctx context.Context, id string) (*protocol.Ticket, error) {
	var card cardResponse
	if err := t.do(ctx, http.MethodGet, "/cards/"+url.PathEscape(id), nil, &card); err != nil {
		return nil, err
	}
	return toCardTicket(&card), nil
}

func (t *TrelloStore) UpdateLabels(ctx context.Context, id string, labels []protocol.Label) (*protocol.Ticket, error) {
	params := url.Values{}
	params.Set("idLabels", labelIDs(labels))

	var card cardResponse
	if err := t.do(ctx, http.MethodPut, "/cards/"+url.PathEscape(id), params, &card); err != nil {
		return nil, err
	}
	return toCardTicket(&card), nil
}

func (t *TrelloStore) ListMembers(ctx context.Context) ([]Member, error) {
	var members []trelloMember
	path := fmt.Sprintf("/organizations/%s/members", url.PathEscape(t.org))
	if err := t.do(ctx, http.MethodGet, path, nil, &members); err != nil {
		return nil, err
	}

	result := make([]Member, 0, len(members))
	for _, m := range members {
		result = append(result, Member{ID: m.ID, Name: m.FullName, Email: m.Email})
	}
	return result, nil
}

// do sends a form-encoded request with key/token auth in the query string.
func (t *TrelloStore) do(ctx context.Context, method, path string, params url.Values, out any) error {
	var body io.Reader
	if params != nil {
		body = strings.NewReader(params.Encode())
	}

	endpoint := fmt.Sprintf("%s%s?key=%s&token=%s", t.baseURL, path, url.QueryEscape(t.key), url.QueryEscape(t.token))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("trello: create request: %w", err)
	}
	if params != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("trello: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("trello: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("trello: unmarshal response: %w", err)
	}
	return nil
}

func toCardTicket(card *cardResponse) *protocol.Ticket {
	labels := make([]protocol.Label, 0, len(card.Labels))
	for _, l := range card.Labels {
		labels = append(labels, protocol.Label{ExternalID: l.ID, Name: l.Name})
	}
	requester := ""
	if len(card.IDMembers) > 0 {
		requester = card.IDMembers[0]
	}
	return &protocol.Ticket{
		ID:          card.ID,
		Name:        card.Name,
		Description: card.Desc,
		RequesterID: requester,
		Type:        "bug",
		Labels:      labels,
		URL:         card.ShortURL,
	}
}

func labelIDs(labels []protocol.Label) string {
	ids := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.ExternalID != "" {
			ids = append(ids, l.ExternalID)
		}
	}
	return strings.Join(ids, ",")
}

// --- Trello wire format types ---

type cardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	ShortURL  string `json:"shortUrl"`
	IDMembers []string `json:"idMembers"`
	Labels    []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"labels"`
}

type trelloMember struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
