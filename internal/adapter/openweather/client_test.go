package openweather

import (
	"context"
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

func testClient(baseURL string) *Client {
	c := NewClient(config.WeatherConfig{
		APIKey: "test-key",
		City:   "Barcelona",
	}, 5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = baseURL
	c.hourlyBaseURL = baseURL
	return c
}

func TestFetchEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		fetch    func(*Client, context.Context) ([]byte, error)
		wantPath string
	}{
		{"current", (*Client).FetchCurrent, "/data/2.5/weather"},
		{"forecast", (*Client).FetchForecast, "/data/2.5/forecast"},
		{"hourly", (*Client).FetchHourly, "/data/2.5/forecast/hourly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, "Barcelona", r.URL.Query().Get("q"))
				assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
				assert.Equal(t, "metric", r.URL.Query().Get("units"))
				fmt.Fprint(w, `{"list": []}`)
			}))
			defer srv.Close()

			body, err := tt.fetch(testClient(srv.URL), context.Background())
			require.NoError(t, err)
			assert.JSONEq(t, `{"list": []}`, string(body))
		})
	}
}

func TestFetch_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchCurrent(context.Background())

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Contains(t, err.Error(), "current weather")
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).FetchForecast(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forecast weather request")
}
