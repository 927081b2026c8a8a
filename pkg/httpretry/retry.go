// Package httpretry sends an HTTP request with bounded exponential backoff.
package httpretry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Policy controls how many times a request is attempted and how long to wait
// between attempts. The wait before retry k (k starting at 0) is BaseDelay*2^k.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Retryable classifies a response status. Nil means DefaultRetryable.
	Retryable func(status int) bool
	// Sleep waits for d or until ctx is done. Nil means a timer-based sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait. status is 0 for transport errors.
	OnRetry func(attempt, status int, delay time.Duration, err error)
}

// RequestBuilder builds a fresh request for every attempt so bodies can be resent.
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// ErrExhausted wraps the last transport error once every attempt failed.
var ErrExhausted = errors.New("max retries exceeded")

// DefaultRetryable retries server errors and rate limiting.
func DefaultRetryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

// Delay returns the wait before retry k.
func (p Policy) Delay(k int) time.Duration {
	if k < 0 {
		k = 0
	}
	if k > 30 {
		k = 30
	}
	return p.BaseDelay * time.Duration(1<<uint(k))
}

// Do sends the request built by build until it gets a non-retryable response
// or runs out of attempts. It returns the last response, the number of
// attempts made, and an error only when no response could be obtained.
// When attempts run out on a retryable status the last response is returned
// with its body unread so the caller can surface the provider's message.
func Do(ctx context.Context, client *http.Client, build RequestBuilder, p Policy) (*http.Response, int, error) {
	if client == nil {
		client = http.DefaultClient
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, i, err
		}
		req, err := build(ctx)
		if err != nil {
			return nil, i, fmt.Errorf("build request: %w", err)
		}
		resp, err := client.Do(req)
		last := i == attempts-1
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, i + 1, ctxErr
			}
			lastErr = err
			if last {
				return nil, i + 1, fmt.Errorf("%w: %w", ErrExhausted, err)
			}
			if p.OnRetry != nil {
				p.OnRetry(i+1, 0, p.Delay(i), err)
			}
		case !retryable(resp.StatusCode) || last:
			return resp, i + 1, nil
		default:
			drain(resp)
			if p.OnRetry != nil {
				p.OnRetry(i+1, resp.StatusCode, p.Delay(i), nil)
			}
		}
		if err := sleep(ctx, p.Delay(i)); err != nil {
			return nil, i + 1, err
		}
	}
	return nil, attempts, fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}

// Sleep waits for d or until ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
