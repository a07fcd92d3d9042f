package infomaniakv2

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter-optin/internal/config"
	"github.com/ignite/newsletter-optin/internal/newsletter"
)

func newTestClient(server *httptest.Server) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
	return &Client{
		baseURL:    server.URL,
		authHeader: "Basic " + creds,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func TestNewClient_BuildsBasicAuth(t *testing.T) {
	client := NewClient(config.ProviderConfig{
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		TimeoutSeconds: 30,
	})

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
	assert.Equal(t, want, client.authHeader)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestListGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/mailinglist", r.URL.Path)
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		assert.Equal(t, want, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"result": "success",
			"data": {
				"data": [
					{"id": 1337, "name": "My first mailinglist", "status": 1},
					{"id": 1338, "name": "My second mailinglist", "status": 0}
				]
			}
		}`))
	}))
	defer server.Close()

	lists, err := newTestClient(server).ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "1337", lists[0].ID)
	assert.Equal(t, 1, lists[0].Status)
	assert.Equal(t, "1338", lists[1].ID)
	assert.Equal(t, 0, lists[1].Status)
}

func TestCreateContact_IsIdentity(t *testing.T) {
	// No server: the v2 backend must not touch the network here.
	client := NewClient(config.ProviderConfig{ClientID: "id", ClientSecret: "sec"})

	id, err := client.CreateContact(context.Background(), "user@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", id)
}

func TestAssignToList_BatchesEmails(t *testing.T) {
	var got importContactsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/public/mailinglist/1337/importcontact", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"result": "success"}`))
	}))
	defer server.Close()

	err := newTestClient(server).AssignToList(context.Background(), "1337",
		[]string{"a@example.com", "b@example.com"})
	require.NoError(t, err)

	require.Len(t, got.Contacts, 2)
	assert.Equal(t, "a@example.com", got.Contacts[0].Email)
	assert.Equal(t, "b@example.com", got.Contacts[1].Email)
	assert.True(t, got.UpdateMetas, "update_metas must always be set on imports")
}

func TestAssignToList_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	err := newTestClient(server).AssignToList(context.Background(), "1337", []string{"a@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, newsletter.ErrUnavailable))
}

func TestGroupOptions_FiltersInactiveLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"result": "success",
			"data": {
				"data": [
					{"id": 1337, "name": "My first mailinglist", "status": 1},
					{"id": 1338, "name": "My second mailinglist", "status": 0},
					{"id": 1339, "name": "Archived list", "status": 2}
				]
			}
		}`))
	}))
	defer server.Close()

	options, err := newTestClient(server).GroupOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"1337": "My first mailinglist"}, options)
}
