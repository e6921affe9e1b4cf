package httpclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Options configures an outbound client.
type Options struct {
	// Timeout bounds a whole exchange, including reading the body. Zero means
	// the caller's context is the only bound.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after a network failure.
	MaxRetries int
	RetryWait  time.Duration
}

// New returns an *http.Client that retries requests which never got a
// response. Any HTTP response, whatever its status, is returned as is.
func New(opts Options) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.MaxRetries
	rc.RetryWaitMin = opts.RetryWait
	rc.RetryWaitMax = opts.RetryWait
	rc.CheckRetry = RetryOnNetworkError
	rc.Logger = slog.Default()

	client := rc.StandardClient()
	client.Timeout = opts.Timeout
	return client
}

// RetryOnNetworkError retries only when no response was received and the
// request context is still alive.
func RetryOnNetworkError(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil, nil
}
