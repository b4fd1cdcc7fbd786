package realtimebidding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rtbsamples/internal/metrics"
	"rtbsamples/internal/retry"
)

// loggingTransport logs every API round trip at debug level.
type loggingTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Debug("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.EscapedPath()),
			zap.Error(err))
		return nil, err
	}

	t.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.EscapedPath()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return resp, nil
}

// statusError marks a response whose status is worth another attempt.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.code)
}

// retryTransport retries GET requests that fail with a transient status.
// Writes pass through untouched. When retries run out the last response is
// returned so the caller still decodes the API error from it.
type retryTransport struct {
	next    http.RoundTripper
	retries int
	logger  *zap.Logger
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next.RoundTrip(req)
	}

	var last *http.Response
	attempt := 0
	err := retry.WithExponentialBackoff(req.Context(), retry.DefaultConfig(t.retries), isStatusError, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			metrics.APIRetries.Inc()
			t.logger.Debug("retrying request",
				zap.String("path", req.URL.EscapedPath()),
				zap.Int("attempt", attempt))
		}
		if last != nil {
			io.Copy(io.Discard, last.Body)
			last.Body.Close()
			last = nil
		}

		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return err
		}
		last = resp
		if retryableStatus(resp.StatusCode) {
			return &statusError{code: resp.StatusCode}
		}
		return nil
	})
	if last != nil {
		return last, nil
	}
	return nil, err
}

func isStatusError(err error) bool {
	var se *statusError
	return errors.As(err, &se)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
