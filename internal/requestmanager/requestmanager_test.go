package requestmanager

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"weebdex/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDoer struct {
	mu     sync.Mutex
	calls  []time.Time
	status int
	body   string
	delay  time.Duration
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.calls = append(d.calls, time.Now())
	d.mu.Unlock()

	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	return &http.Response{
		StatusCode: d.status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(d.body)),
		Request:    req,
	}, nil
}

func (d *recordingDoer) timestamps() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]time.Time, len(d.calls))
	copy(out, d.calls)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func TestManager_Defaults(t *testing.T) {
	m := New(Options{Logger: zerolog.Nop()})

	assert.Equal(t, 4, m.RequestsPerSecond())
	assert.Equal(t, 15*time.Second, m.Timeout())
}

func maxInWindow(calls []time.Time, span time.Duration) int {
	most := 0
	for i := range calls {
		inWindow := 1
		for j := i + 1; j < len(calls); j++ {
			if calls[j].Sub(calls[i]) < span {
				inWindow++
			}
		}
		most = max(most, inWindow)
	}
	return most
}

func TestManager_Schedule_RateLimit(t *testing.T) {
	for run := 0; run < 3; run++ {
		doer := &recordingDoer{status: http.StatusOK, body: `{"results":[]}`}
		m := New(Options{
			RequestsPerSecond: 4,
			RequestTimeout:    time.Second,
			Client:            doer,
			Logger:            zerolog.Nop(),
		})

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := m.Schedule(context.Background(), Request{URL: "https://weebdex.org/api/manga?title=x&limit=20"}, 1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		calls := doer.timestamps()
		require.Len(t, calls, 10)

		assert.LessOrEqual(t, maxInWindow(calls, time.Second), 4, "run %d", run)
		assert.GreaterOrEqual(t, calls[len(calls)-1].Sub(calls[0]), 2*time.Second)
	}
}

func TestWindow_Wait(t *testing.T) {
	w := newWindow(2, 200*time.Millisecond)

	var admitted []time.Time
	for i := 0; i < 5; i++ {
		at, err := w.wait(context.Background())
		require.NoError(t, err)
		admitted = append(admitted, at)
	}

	assert.LessOrEqual(t, maxInWindow(admitted, 200*time.Millisecond), 2)
	assert.GreaterOrEqual(t, admitted[2].Sub(admitted[0]), 200*time.Millisecond)
	assert.GreaterOrEqual(t, admitted[4].Sub(admitted[2]), 200*time.Millisecond)
}

func TestWindow_Wait_Cancelled(t *testing.T) {
	w := newWindow(1, time.Minute)

	_, err := w.wait(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = w.wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManager_Schedule_ErrorStatusIsNotAnError(t *testing.T) {
	doer := &recordingDoer{status: http.StatusNotFound, body: "not found"}
	m := New(Options{Client: doer, Logger: zerolog.Nop()})

	resp, err := m.Schedule(context.Background(), Request{URL: "https://weebdex.org/api/manga/missing"}, 1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "not found", string(resp.Data))
	assert.Equal(t, http.MethodGet, resp.Request.Method)
}

func TestManager_Schedule_Timeout(t *testing.T) {
	doer := &recordingDoer{status: http.StatusOK, delay: time.Second}
	m := New(Options{RequestTimeout: 20 * time.Millisecond, Client: doer, Logger: zerolog.Nop()})

	_, err := m.Schedule(context.Background(), Request{URL: "https://weebdex.org/api/chapter/1"}, 1)
	require.Error(t, err)

	var transportErr *domain.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, transportErr.Timeout())
	assert.Zero(t, transportErr.StatusCode)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestManager_Schedule_Cancelled(t *testing.T) {
	doer := &recordingDoer{status: http.StatusOK}
	m := New(Options{RequestsPerSecond: 1, Client: doer, Logger: zerolog.Nop()})

	// drain the only token so the next call has to wait
	_, err := m.Schedule(context.Background(), Request{URL: "https://weebdex.org/a"}, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Schedule(ctx, Request{URL: "https://weebdex.org/b"}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Len(t, doer.timestamps(), 1)
}

func TestManager_Schedule_HTTP(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pages":["a.png"]}`))
	}))
	defer srv.Close()

	m := New(Options{UserAgent: "weebdex/test", Client: srv.Client(), Logger: zerolog.Nop()})

	resp, err := m.Schedule(context.Background(), Request{URL: srv.URL + "/api/chapter/1", Method: http.MethodGet}, 1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"pages":["a.png"]}`, string(resp.Data))
	assert.Equal(t, "weebdex/test", userAgent)
}
