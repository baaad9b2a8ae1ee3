package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
)

func testClient(endpoint string) *Client {
	c := NewClient(config.GitHubConfig{
		Token: "test-token",
		Login: "xa-bi",
	}, 5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.endpoint = endpoint
	return c
}

func decodeQuery(t *testing.T, r *http.Request) string {
	t.Helper()
	var body struct {
		Query string `json:"query"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body.Query
}

func TestFetchQueries(t *testing.T) {
	tests := []struct {
		name      string
		fetch     func(*Client, context.Context) ([]byte, error)
		wantQuery string
	}{
		{"pending PRs", (*Client).FetchPendingPRs, `author:xa-bi`},
		{"review requests", (*Client).FetchReviewRequests, `review-requested:xa-bi`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "bearer test-token", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Contains(t, decodeQuery(t, r), tt.wantQuery)
				fmt.Fprint(w, `{"data": {"search": {"edges": []}}}`)
			}))
			defer srv.Close()

			body, err := tt.fetch(testClient(srv.URL), context.Background())
			require.NoError(t, err)
			assert.JSONEq(t, `{"data": {"search": {"edges": []}}}`, string(body))
		})
	}
}

func TestFetch_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchPendingPRs(context.Background())

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Contains(t, err.Error(), "github pending PRs")
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).FetchReviewRequests(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review requests request")
}
