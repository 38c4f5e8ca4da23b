package httpjson

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get_EncodesQueryAndDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UC+special/id", r.URL.Query().Get("id"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"count": 12})
	}))
	defer server.Close()

	var out map[string]any
	err := New("YouTube").Get(context.Background(), server.URL+"/v3/channels", url.Values{"id": {"UC+special/id"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, json.Number("12"), out["count"], "numbers should stay exact json.Number values")
}

func TestClient_Get_KeepsExistingQueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("existing"))
		assert.Equal(t, "2", r.URL.Query().Get("added"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var out map[string]any
	err := New("Graph").Get(context.Background(), server.URL+"?existing=1", url.Values{"added": {"2"}}, &out)
	require.NoError(t, err)
}

func TestClient_Get_ReturnsStatusErrorOnNon2xx(t *testing.T) {
	testCases := []struct {
		status int
		hint   string
	}{
		{http.StatusUnauthorized, "authentication"},
		{http.StatusForbidden, "denied"},
		{http.StatusTooManyRequests, "rate limit"},
		{http.StatusServiceUnavailable, "unavailable"},
		{http.StatusBadGateway, "server error"},
		{http.StatusTeapot, "status 418"},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope"}}`))
			}))
			defer server.Close()

			var out map[string]any
			err := New("Facebook Graph").Get(context.Background(), server.URL, nil, &out)

			require.Error(t, err)
			assert.True(t, IsStatus(err, tc.status))
			assert.Contains(t, strings.ToLower(err.Error()), tc.hint)
			assert.Contains(t, err.Error(), "Facebook Graph")
		})
	}
}

func TestClient_Get_FailsOnMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"snippet": {"title": "Test`))
	}))
	defer server.Close()

	var out map[string]any
	err := New("YouTube").Get(context.Background(), server.URL, nil, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YouTube response")
}

func TestClient_Get_RespectsContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var out map[string]any
	err := New("YouTube").Get(ctx, server.URL, nil, &out)

	require.Error(t, err)
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

func TestClient_Get_RedactsCredentialsFromTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	var out map[string]any
	err := New("Instagram Graph").Get(context.Background(), serverURL+"/me/media", url.Values{"access_token": {"secret-token"}}, &out)

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestClient_Get_UsesInjectedHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	client := New("YouTube", WithHTTPClient(server.Client()), WithTimeout(time.Second))
	require.NoError(t, client.Get(context.Background(), server.URL, nil, &out))
	assert.True(t, out.OK)
}
