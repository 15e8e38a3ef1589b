// Package requestmanager schedules outgoing HTTP requests behind a shared rate
// limiter and applies a timeout to each exchange.
package requestmanager

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"time"

	"weebdex/internal/domain"
	"weebdex/internal/sharedhttp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultRequestsPerSecond = 4
	DefaultRequestTimeout    = 15000 * time.Millisecond
)

// Request describes a single outgoing call.
type Request struct {
	URL    string
	Method string
}

// Response holds the raw body of a completed exchange, whatever its status.
type Response struct {
	Request Request
	Status  int
	Header  http.Header
	Data    []byte
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	RequestsPerSecond int
	RequestTimeout    time.Duration
	UserAgent         string
	Client            Doer
	Logger            zerolog.Logger
}

type Manager struct {
	limiter   *rate.Limiter
	window    *window
	timeout   time.Duration
	userAgent string
	client    Doer
	log       zerolog.Logger
}

func New(opts Options) *Manager {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	if opts.UserAgent == "" {
		opts.UserAgent = "weebdex"
	}

	client := opts.Client
	if client == nil {
		client = sharedhttp.NewClient(opts.RequestTimeout)
	}

	return &Manager{
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		window:    newWindow(opts.RequestsPerSecond, time.Second+windowMargin),
		timeout:   opts.RequestTimeout,
		userAgent: opts.UserAgent,
		client:    client,
		log:       opts.Logger,
	}
}

func (m *Manager) RequestsPerSecond() int {
	return len(m.window.times)
}

func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// Schedule waits for admission, performs the request and returns its body.
// Only network failures, timeouts and cancellation are returned as errors;
// non-2xx responses are returned as they are for the caller to judge.
func (m *Manager) Schedule(ctx context.Context, req Request, priority int) (Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	log := m.log.With().
		Str("request_id", uuid.NewString()).
		Str("method", req.Method).
		Str("url", req.URL).
		Int("priority", priority).
		Logger()

	queued := time.Now()
	if err := m.limiter.Wait(ctx); err != nil {
		return Response{}, &domain.TransportError{Op: req.Method, URL: req.URL, Err: err}
	}

	admitted, err := m.window.wait(ctx)
	if err != nil {
		return Response{}, &domain.TransportError{Op: req.Method, URL: req.URL, Err: err}
	}
	log.Trace().Dur("queued", admitted.Sub(queued)).Msg("request admitted")

	reqCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, req.URL, nil)
	if err != nil {
		return Response{}, &domain.TransportError{Op: req.Method, URL: req.URL, Err: err}
	}

	httpReq.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return Response{}, &domain.TransportError{Op: req.Method, URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(bufio.NewReader(resp.Body))
	if err != nil {
		log.Debug().Err(err).Msg("failed to read response body")
		return Response{}, &domain.TransportError{Op: req.Method, URL: req.URL, StatusCode: resp.StatusCode, Err: err}
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(admitted)).
		Msg("request finished")

	return Response{
		Request: req,
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Data:    data,
	}, nil
}
