package requestmanager

import (
	"context"
	"sync"
	"time"
)

// windowMargin keeps the cap intact when admissions are observed a little
// later than they were granted, e.g. at the transport.
const windowMargin = 10 * time.Millisecond

// window admits at most len(times) calls within any span of time. It holds the
// hard cap; the rate limiter in front of it only spreads calls evenly.
type window struct {
	m     sync.Mutex
	span  time.Duration
	times []time.Time
	next  int
}

func newWindow(limit int, span time.Duration) *window {
	return &window{
		span:  span,
		times: make([]time.Time, limit),
	}
}

// wait blocks until the oldest recorded admission has left the span, then
// records the current time as a new admission.
func (w *window) wait(ctx context.Context) (time.Time, error) {
	for {
		w.m.Lock()
		now := time.Now()
		oldest := w.times[w.next]

		if oldest.IsZero() || now.Sub(oldest) >= w.span {
			w.times[w.next] = now
			w.next = (w.next + 1) % len(w.times)
			w.m.Unlock()
			return now, nil
		}

		delay := w.span - now.Sub(oldest)
		w.m.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return time.Time{}, ctx.Err()
		case <-timer.C:
		}
	}
}
