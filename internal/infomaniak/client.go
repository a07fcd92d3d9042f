// Package infomaniak implements the newsletter.Client contract against the
// legacy Infomaniak Newsletter v1 API (bearer-token auth, provider-issued
// subscriber ids).
package infomaniak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ignite/newsletter-optin/internal/config"
	"github.com/ignite/newsletter-optin/internal/domain"
	"github.com/ignite/newsletter-optin/internal/newsletter"
	"github.com/ignite/newsletter-optin/internal/pkg/httpretry"
	"github.com/ignite/newsletter-optin/internal/pkg/logger"
)

// Client is a legacy Infomaniak Newsletter v1 API client
type Client struct {
	baseURL    string
	token      string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a v1 API client. The API base is composed from the
// configured base URL and account domain, mirroring how the account console
// hands out the endpoint.
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.Domain,
		token:   cfg.Token,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// doRequest makes an HTTP request to the v1 API with bearer auth
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// ListGroups returns every mailing list on the account, in API order.
func (c *Client) ListGroups(ctx context.Context) ([]domain.MailingList, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/groups", nil)
	if err != nil {
		logger.Error("newsletter api request failed", "op", "list groups", "err", err)
		return nil, newsletter.Unavailable("listing groups", err)
	}

	var response groupsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logger.Error("newsletter api request failed", "op", "list groups", "err", err)
		return nil, newsletter.Unavailable("parsing groups response", err)
	}

	lists := make([]domain.MailingList, 0, len(response.Data))
	for _, g := range response.Data {
		lists = append(lists, domain.MailingList{
			ID:     g.ID.String(),
			Name:   g.Name,
			Status: g.Status,
		})
	}
	return lists, nil
}

// FetchGroup returns one mailing list by id.
func (c *Client) FetchGroup(ctx context.Context, groupID string) (*domain.MailingList, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/groups/"+groupID, nil)
	if err != nil {
		logger.Error("newsletter api request failed", "op", "fetch group", "group_id", groupID, "err", err)
		return nil, newsletter.Unavailable("fetching group "+groupID, err)
	}

	var g groupData
	if err := json.Unmarshal(body, &g); err != nil {
		logger.Error("newsletter api request failed", "op", "fetch group", "group_id", groupID, "err", err)
		return nil, newsletter.Unavailable("parsing group response", err)
	}

	return &domain.MailingList{ID: g.ID.String(), Name: g.Name, Status: g.Status}, nil
}

// CreateContact upserts a subscriber and returns the provider-issued id.
// The fields map is accepted for interface parity; the v1 API only takes
// the address.
func (c *Client) CreateContact(ctx context.Context, email string, _ map[string]string) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/subscribers", createSubscriberRequest{Email: email})
	if err != nil {
		logger.Error("newsletter api request failed", "op", "create subscriber", "email", email, "err", err)
		return "", newsletter.Unavailable("creating subscriber", err)
	}

	var response createSubscriberResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logger.Error("newsletter api request failed", "op", "create subscriber", "email", email, "err", err)
		return "", newsletter.Unavailable("parsing subscriber response", err)
	}

	logger.Info("subscriber created", "email", email, "subscriber_id", response.Data.ID.String())
	return response.Data.ID.String(), nil
}

// AssignToList subscribes the given subscriber ids to a mailing list in one
// batch. The whole batch succeeds or the whole call fails.
func (c *Client) AssignToList(ctx context.Context, groupID string, contactIDs []string) error {
	path := fmt.Sprintf("/groups/%s/subscribers/assign", groupID)
	_, err := c.doRequest(ctx, http.MethodPost, path, assignSubscribersRequest{SubscriberIDs: contactIDs})
	if err != nil {
		logger.Error("newsletter api request failed", "op", "assign subscribers", "group_id", groupID, "err", err)
		return newsletter.Unavailable("assigning subscribers to group "+groupID, err)
	}

	logger.Info("contacts imported to newsletter", "count", len(contactIDs), "group_id", groupID)
	return nil
}

// GroupOptions returns every list as id → name, unfiltered. The v1 API does
// not expose a reliable active flag, so filtering is left to the caller.
func (c *Client) GroupOptions(ctx context.Context) (map[string]string, error) {
	lists, err := c.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	options := make(map[string]string, len(lists))
	for _, l := range lists {
		options[l.ID] = l.Name
	}
	return options, nil
}
