package http_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/taxbridge/taxbridge-api/internal/client/http"
	"github.com/taxbridge/taxbridge-api/internal/logger"
)

func init() {
	logger.InitLogger("test")
}

func TestGetProcessesJSONResponse(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(srv.URL))
	resp, err := client.Get(context.Background(), "status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]string
	require.NoError(t, client.ProcessJSONResponse(resp, &payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(nethttp.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	client := httpclient.NewHTTPClient(
		httpclient.WithBaseURL(srv.URL),
		httpclient.WithRetryConfig(&httpclient.RetryConfig{
			MaxRetries:           2,
			InitialInterval:      time.Millisecond,
			MaxInterval:          5 * time.Millisecond,
			Multiplier:           1.5,
			MaxElapsedTime:       time.Second,
			RetryableStatusCodes: []int{nethttp.StatusInternalServerError},
		}),
	)

	resp, err := client.Get(context.Background(), "status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(nethttp.StatusBadRequest)
		w.Write([]byte(`{"error":"bad input"}`))
	}))
	defer srv.Close()

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(srv.URL))
	_, err := client.Get(context.Background(), "status")
	require.Error(t, err)

	var httpErr *httpclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, nethttp.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRequestOptionsApplied(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "v1", r.Header.Get("X-Test"))
		assert.Equal(t, "42", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(srv.URL))
	resp, err := client.Get(context.Background(), "items",
		httpclient.WithHeader("X-Test", "v1"),
		httpclient.WithQueryParam("limit", "42"),
	)
	require.NoError(t, err)
	resp.Body.Close()
}
