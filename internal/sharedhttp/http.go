package sharedhttp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"weebdex/internal/domain"

	"github.com/avast/retry-go"
)

var Transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ReadBufferSize:        65536,
	WriteBufferSize:       65536,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: Transport,
	}
}

// CheckStatusCode returns nil for 2xx codes. Errors for codes that are not worth
// retrying are marked with retry.Unrecoverable.
func CheckStatusCode(statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode < 300:

	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return retry.Unrecoverable(fmt.Errorf("access denied: status code %d", statusCode))

	case statusCode == http.StatusMethodNotAllowed:
		return retry.Unrecoverable(fmt.Errorf("method not allowed: status code %d", statusCode))

	case statusCode == http.StatusNotFound:
		return fmt.Errorf("resource not found: status code %d", statusCode)

	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("rate limited by upstream: status code %d", statusCode)

	case statusCode == http.StatusBadGateway, statusCode == http.StatusServiceUnavailable,
		statusCode == http.StatusGatewayTimeout, statusCode == http.StatusInternalServerError:
		return fmt.Errorf("server error encountered: status code %d", statusCode)

	default:
		return retry.Unrecoverable(fmt.Errorf("unexpected status code %d", statusCode))
	}

	return nil
}

// IsRetryable reports whether a host-side caller may retry the operation that returned err.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		return false
	}

	if transportErr.StatusCode == 0 {
		return true
	}

	return retry.IsRecoverable(transportErr.Err)
}
