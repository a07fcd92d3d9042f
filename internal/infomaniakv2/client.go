// Package infomaniakv2 implements the newsletter.Client contract against the
// Infomaniak Newsletter v2 public API.
//
// The v2 API differs from v1 in three ways that matter here: auth is HTTP
// basic (client id + secret) instead of a bearer token, the endpoint base is
// fixed rather than account-scoped, and contacts are addressed by raw email —
// there is no separately-issued subscriber id, so CreateContact is an
// identity function and AssignToList batches emails into one import call.
package infomaniakv2

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/newsletter-optin/internal/config"
	"github.com/ignite/newsletter-optin/internal/domain"
	"github.com/ignite/newsletter-optin/internal/newsletter"
	"github.com/ignite/newsletter-optin/internal/pkg/httpretry"
	"github.com/ignite/newsletter-optin/internal/pkg/logger"
)

// DefaultBaseURL is the fixed v2 public API base.
const DefaultBaseURL = "https://newsletter.infomaniak.com/api/v1"

// Client is an Infomaniak Newsletter v2 public API client
type Client struct {
	baseURL    string
	authHeader string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a v2 API client from the configured client id and secret.
func NewClient(cfg config.ProviderConfig) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(cfg.ClientID + ":" + cfg.ClientSecret))
	return &Client{
		baseURL:    DefaultBaseURL,
		authHeader: "Basic " + creds,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

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

	req.Header.Set("Authorization", c.authHeader)
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
	body, err := c.doRequest(ctx, http.MethodGet, "/public/mailinglist", nil)
	if err != nil {
		logger.Error("newsletter api request failed", "op", "list mailinglists", "err", err)
		return nil, newsletter.Unavailable("listing mailinglists", err)
	}

	var response mailinglistsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logger.Error("newsletter api request failed", "op", "list mailinglists", "err", err)
		return nil, newsletter.Unavailable("parsing mailinglists response", err)
	}

	lists := make([]domain.MailingList, 0, len(response.Data.Data))
	for _, m := range response.Data.Data {
		lists = append(lists, domain.MailingList{
			ID:     m.ID.String(),
			Name:   m.Name,
			Status: m.Status,
		})
	}
	return lists, nil
}

// FetchGroup returns one mailing list by id.
func (c *Client) FetchGroup(ctx context.Context, groupID string) (*domain.MailingList, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/public/mailinglist/"+groupID, nil)
	if err != nil {
		logger.Error("newsletter api request failed", "op", "fetch mailinglist", "group_id", groupID, "err", err)
		return nil, newsletter.Unavailable("fetching mailinglist "+groupID, err)
	}

	var m mailinglistData
	if err := json.Unmarshal(body, &m); err != nil {
		logger.Error("newsletter api request failed", "op", "fetch mailinglist", "group_id", groupID, "err", err)
		return nil, newsletter.Unavailable("parsing mailinglist response", err)
	}

	return &domain.MailingList{ID: m.ID.String(), Name: m.Name, Status: m.Status}, nil
}

// CreateContact is an identity function: the v2 API addresses contacts by
// email, so the "contact id" AssignToList expects is the address itself.
// Trivially idempotent.
func (c *Client) CreateContact(_ context.Context, email string, _ map[string]string) (string, error) {
	return email, nil
}

// AssignToList imports the given emails into a mailing list in one batch with
// update_metas always set, matching the provider's recommended import call.
func (c *Client) AssignToList(ctx context.Context, groupID string, contactIDs []string) error {
	contacts := make([]importContact, 0, len(contactIDs))
	for _, email := range contactIDs {
		contacts = append(contacts, importContact{Email: email})
	}

	path := fmt.Sprintf("/public/mailinglist/%s/importcontact", groupID)
	_, err := c.doRequest(ctx, http.MethodPost, path, importContactsRequest{
		Contacts:    contacts,
		UpdateMetas: true,
	})
	if err != nil {
		logger.Error("newsletter api request failed", "op", "import contacts", "group_id", groupID, "err", err)
		return newsletter.Unavailable("importing contacts to mailinglist "+groupID, err)
	}

	logger.Info("contacts imported to newsletter", "count", len(contactIDs), "group_id", groupID)
	return nil
}

// GroupOptions returns active lists only (status == 1) as id → name.
func (c *Client) GroupOptions(ctx context.Context) (map[string]string, error) {
	lists, err := c.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	options := make(map[string]string)
	for _, l := range lists {
		if l.Status != listActiveStatus {
			continue
		}
		options[l.ID] = l.Name
	}
	return options, nil
}
