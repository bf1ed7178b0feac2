package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto-api-agent/internal/config"
)

func testClient(baseURL string, auth config.AuthConfig) *Client {
	return NewClient(baseURL, config.HTTPConfig{Timeout: 5, Retry: config.RetryConfig{Attempts: 2}}, auth, nil)
}

func TestRequestDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "user-1"})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL, config.AuthConfig{}).Request(context.Background(), "GET", "/users/user-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "user-1", resp.Data.(map[string]interface{})["id"])
}

func TestRequestSendsAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := testClient(srv.URL, config.AuthConfig{Type: "bearer", Token: "secret-token"})
	resp, err := client.Request(context.Background(), "POST", "/users", nil, map[string]interface{}{"name": "Test Name"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "Test Name", gotBody["name"])
}

func TestRequestAppendsQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, config.AuthConfig{}).Request(context.Background(), "GET", "/users", map[string]interface{}{"page": 2, "sort": "name"}, nil)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "sort=name")
}

func TestRequestDoesNotRetryBackendErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "title is required"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, config.AuthConfig{}).Request(context.Background(), "POST", "/posts", nil, map[string]interface{}{})
	require.Error(t, err)
	assert.Equal(t, 1, hits, "4xx responses are terminal, not retried")
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "title is required")
}

func TestRequestRetriesTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	_, err := testClient(srv.URL, config.AuthConfig{}).Request(context.Background(), "GET", "/users", nil, nil)
	require.Error(t, err)
}

func TestRequestReturnsWithoutDelayAfterFinalAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, config.HTTPConfig{Timeout: 5, Retry: config.RetryConfig{Attempts: 1, Delay: 5}}, config.AuthConfig{}, nil)

	start := time.Now()
	_, err := client.Request(context.Background(), "GET", "/users", nil, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "the configured delay only applies between attempts")
}

func TestRequestHandlesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL, config.AuthConfig{}).Request(context.Background(), "DELETE", "/users/user-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Nil(t, resp.Data)
}
