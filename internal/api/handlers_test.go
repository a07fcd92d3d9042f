package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter-optin/internal/domain"
	"github.com/ignite/newsletter-optin/internal/newsletter"
	"github.com/ignite/newsletter-optin/internal/service/subscription"
)

type memRepo struct {
	mu   sync.Mutex
	rows []domain.Subscription
}

func (r *memRepo) Insert(_ context.Context, email, listID string, createdAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, domain.Subscription{
		Email:         email,
		MailingListID: listID,
		CreatedAt:     createdAt,
		Status:        domain.StatusPending,
	})
	return nil
}

func (r *memRepo) FindPending(_ context.Context, email, listID string, createdAt int64) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		row := r.rows[i]
		if row.Email == email && row.MailingListID == listID && row.CreatedAt == createdAt && row.Status == domain.StatusPending {
			return &row, nil
		}
	}
	return nil, subscription.ErrNotFound
}

func (r *memRepo) MarkConfirmed(_ context.Context, email, listID string, createdAt int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		row := &r.rows[i]
		if row.Email == email && row.MailingListID == listID && row.CreatedAt == createdAt && row.Status == domain.StatusPending {
			row.Status = domain.StatusConfirmed
			return 1, nil
		}
	}
	return 0, nil
}

type capturingNotifier struct {
	mu   sync.Mutex
	urls []string
}

func (n *capturingNotifier) SendConfirmation(_ context.Context, _, confirmURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urls = append(n.urls, confirmURL)
	return nil
}

func (n *capturingNotifier) lastURL(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.urls, "no confirmation email was sent")
	return n.urls[len(n.urls)-1]
}

func setupTestServer(t *testing.T) (http.Handler, *capturingNotifier, *newsletter.Mock) {
	t.Helper()
	repo := &memRepo{}
	provider := newsletter.NewMock()
	notifier := &capturingNotifier{}
	svc := subscription.NewService(repo, provider, notifier, "https://www.example.org")
	return SetupRoutes(NewHandlers(svc, nil)), notifier, provider
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSubscribe(t *testing.T) {
	handler, notifier, _ := setupTestServer(t)

	rec := postJSON(t, handler, "/api/newsletter/subscribe", subscribeRequest{
		Email:         "user@example.com",
		MailingListID: "1337",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "check your inbox")

	link := notifier.lastURL(t)
	assert.Contains(t, link, "/newsletter/confirm?")
	assert.Contains(t, link, "mailinglistId=1337")
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	handler, _, _ := setupTestServer(t)

	rec := postJSON(t, handler, "/api/newsletter/subscribe", subscribeRequest{
		Email:         "not-an-address",
		MailingListID: "1337",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscribe_MalformedBody(t *testing.T) {
	handler, _, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirm_FullFlow(t *testing.T) {
	handler, notifier, provider := setupTestServer(t)

	rec := postJSON(t, handler, "/api/newsletter/subscribe", subscribeRequest{
		Email:         "user@example.com",
		MailingListID: "1337",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	link, err := url.Parse(notifier.lastURL(t))
	require.NoError(t, err)

	rec = get(handler, link.RequestURI())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "confirmed")

	calls := provider.AssignCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "1337", calls[0].GroupID)
	assert.Equal(t, []string{newsletter.MockContactID}, calls[0].ContactIDs)
}

func TestConfirm_SecondUseFails(t *testing.T) {
	handler, notifier, provider := setupTestServer(t)

	rec := postJSON(t, handler, "/api/newsletter/subscribe", subscribeRequest{
		Email:         "user@example.com",
		MailingListID: "1337",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	link, err := url.Parse(notifier.lastURL(t))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, get(handler, link.RequestURI()).Code)

	rec = get(handler, link.RequestURI())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, provider.AssignCalls(), 1, "second confirmation must not reach the provider")
}

func TestConfirm_UnknownToken(t *testing.T) {
	handler, _, _ := setupTestServer(t)

	rec := get(handler, "/newsletter/confirm?timestamp=1730509011&email=ghost%40example.com&mailinglistId=1337")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirm_MalformedQuery(t *testing.T) {
	handler, _, _ := setupTestServer(t)

	for _, path := range []string{
		"/newsletter/confirm",
		"/newsletter/confirm?timestamp=abc&email=a%40b.co&mailinglistId=1",
		"/newsletter/confirm?email=a%40b.co&mailinglistId=1",
	} {
		rec := get(handler, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestListOptions(t *testing.T) {
	handler, _, _ := setupTestServer(t)

	rec := get(handler, "/api/newsletter/lists")
	require.Equal(t, http.StatusOK, rec.Code)

	var options map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, "My first mailinglist", options["1337"])
	assert.Len(t, options, 2)
}

func TestListOptions_ProviderDown(t *testing.T) {
	handler, _, provider := setupTestServer(t)
	provider.Err = newsletter.ErrUnavailable

	rec := get(handler, "/api/newsletter/lists")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestListDetail(t *testing.T) {
	handler, _, _ := setupTestServer(t)

	rec := get(handler, "/api/newsletter/lists/1337")
	require.Equal(t, http.StatusOK, rec.Code)

	var list domain.MailingList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "1337", list.ID)
}

func TestHealth(t *testing.T) {
	handler, _, _ := setupTestServer(t)

	rec := get(handler, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
