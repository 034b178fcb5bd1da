package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-dashboard/internal/model"
	"crm-dashboard/pkg/httpclient"
)

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func newTestClient(baseURL string) *Client {
	return NewClient(httpclient.New(2*time.Second), baseURL, staticTokens("test-token"))
}

func TestFetchPageSubjectURLAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"page":     r.URL.Query().Get("page"),
			"per_page": r.URL.Query().Get("per_page"),
			"fields":   r.URL.Query().Get("fields"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"Deal_Name": "first"}},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.FetchPage(context.Background(), "sub-1", model.RoleAgent, 2, model.UpstreamPageSize)
	require.NoError(t, err)

	assert.Equal(t, "/Contacts/sub-1/Deals", gotPath)
	assert.Equal(t, "Zoho-oauthtoken test-token", gotAuth)
	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "200", gotQuery["per_page"])
	assert.NotEmpty(t, gotQuery["fields"])

	assert.Equal(t, model.PageOK, result.Status)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "first", result.Records[0].Str(model.FieldDealName))
}

func TestFetchPageCrossSubjectURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.FetchPage(context.Background(), "", "", 1, model.UpstreamPageSize)
	require.NoError(t, err)
	assert.Equal(t, "/Deals", gotPath)
	assert.Equal(t, model.PageEmpty, result.Status)
}

func TestFetchPageEmptyDataIsPageEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]interface{}{}})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).FetchPage(context.Background(), "sub-1", model.RoleAgent, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, model.PageEmpty, result.Status)
	assert.Empty(t, result.Records)
}

func TestFetchPageUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchPage(context.Background(), "sub-1", model.RoleAgent, 1, 10)
	require.ErrorIs(t, err, ErrAuthExpired)
}

func TestFetchPageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchPage(context.Background(), "sub-1", model.RoleAgent, 1, 10)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthExpired)
}

func TestFetchDetailsByRole(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"Bank_Name": "First National"}},
		})
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchDetails(context.Background(), "sub-1", model.RoleBroker)
	require.NoError(t, err)
	assert.Equal(t, "/Brokerage/sub-1", gotPath)
	assert.Equal(t, "First National", details.Str("Bank_Name"))
}

func TestFetchDetailsNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchDetails(context.Background(), "sub-1", model.RoleReferral)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestFetchContactsURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).FetchContacts(context.Background(), "sub-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "/Referral/sub-1/Contacts", gotPath)
	assert.Equal(t, model.PageEmpty, result.Status)
}
