package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOnNetworkError(t *testing.T) {
	ctx := context.Background()

	retry, err := RetryOnNetworkError(ctx, nil, errors.New("connection reset"))
	assert.True(t, retry)
	assert.NoError(t, err)

	retry, err = RetryOnNetworkError(ctx, &http.Response{StatusCode: http.StatusServiceUnavailable}, nil)
	assert.False(t, retry)
	assert.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	retry, err = RetryOnNetworkError(cancelled, nil, errors.New("connection reset"))
	assert.False(t, retry)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_DoesNotRetryResponses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(Options{Timeout: time.Second, MaxRetries: 3, RetryWait: time.Millisecond})
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
