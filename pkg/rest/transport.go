package rest

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries    = 3
	retryInitialInterval = 250 * time.Millisecond
	retryMaxInterval     = 4 * time.Second
	retryMaxElapsed      = 30 * time.Second
)

var errRetryableStatus = errors.New("meridian: retryable status")

// retryTransport retries API calls on 429, 5xx, and transient network errors
// with exponential backoff, optionally gated by a token-bucket limiter. All
// API operations are GET round trips, so replaying a request is safe. When
// the retry budget runs out on a retryable status, the final response is
// handed to the caller for normal error mapping.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	limiter    *rate.Limiter
}

func newRetryTransport(base http.RoundTripper, maxRetries int, limiter *rate.Limiter) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &retryTransport{base: base, maxRetries: maxRetries, limiter: limiter}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		if resp != nil {
			drain(resp)
			resp = nil
		}
		if t.limiter != nil {
			if err := t.limiter.Wait(req.Context()); err != nil {
				return backoff.Permanent(err)
			}
		}
		var err error
		resp, err = t.base.RoundTrip(req.Clone(req.Context()))
		if err != nil {
			if req.Context().Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if retryableStatus(resp.StatusCode) {
			return errRetryableStatus
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = retryInitialInterval
	strategy.MaxInterval = retryMaxInterval
	strategy.MaxElapsedTime = retryMaxElapsed
	policy := backoff.WithContext(backoff.WithMaxRetries(strategy, uint64(t.maxRetries)), req.Context())

	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, errRetryableStatus) && resp != nil {
			return resp, nil
		}
		if resp != nil {
			drain(resp)
		}
		return nil, err
	}
	return resp, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// drain discards a response that will not reach the caller so the underlying
// connection can be reused.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
