// Package monitor polls manga chapter lists and reports chapters that were not
// seen on an earlier poll. State lives in memory for the lifetime of the process.
package monitor

import (
	"context"
	"sync"
	"time"

	"weebdex/internal/domain"
	"weebdex/internal/logger"
	"weebdex/internal/parse"
	"weebdex/internal/sharedhttp"
	"weebdex/internal/templater"

	"github.com/avast/retry-go"
)

type Options struct {
	NamingTemplate string
	Attempts       uint
	Delay          time.Duration
	MaxJitter      time.Duration
}

type Monitor struct {
	src  domain.Source
	log  logger.Logger
	opts Options

	m    sync.Mutex
	seen map[string]map[string]struct{}
}

func New(src domain.Source, log logger.Logger, opts Options) *Monitor {
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = 3 * time.Second
	}
	// retry.RandomDelay panics on a zero jitter
	if opts.MaxJitter <= 0 {
		opts.MaxJitter = time.Second
	}

	return &Monitor{
		src:  src,
		log:  log,
		opts: opts,
		seen: make(map[string]map[string]struct{}),
	}
}

// Check fetches the chapters of the monitored manga and returns the ones that
// are new since the previous check. The first check only records what exists.
func (m *Monitor) Check(ctx context.Context, name string, monitored *domain.MonitoredManga) ([]domain.Chapter, error) {
	mLog := m.log.With().Str("name", name).Str("manga", monitored.Manga).Str("source", m.src.String()).Logger()

	var manga domain.Manga
	var chapters []domain.Chapter

	err := m.retry(ctx, func() error {
		var err error
		manga, err = m.src.GetMangaDetails(ctx, monitored.Manga)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = m.retry(ctx, func() error {
		var err error
		chapters, err = m.src.GetChapters(ctx, monitored.Manga)
		return err
	})
	if err != nil {
		return nil, err
	}

	newChapters := m.diff(name, chapters)

	if _, latest, err := parse.MinAndMax(chapters, func(c domain.Chapter) float32 { return c.Number }); err == nil {
		mLog.Debug().Msgf("latest chapter is %q", templater.New(manga, latest).ExecTemplate(m.opts.NamingTemplate))
	} else {
		mLog.Debug().Msg("manga has no chapters yet")
	}

	for _, chapter := range newChapters {
		mLog.Info().
			Str("chapter_id", chapter.ID).
			Msgf("new chapter %q", templater.New(manga, chapter).ExecTemplate(m.opts.NamingTemplate))
	}

	return newChapters, nil
}

// diff records chapters as seen and returns those not seen before. The first
// call for a name only seeds the set.
func (m *Monitor) diff(name string, chapters []domain.Chapter) []domain.Chapter {
	m.m.Lock()
	defer m.m.Unlock()

	seen, ok := m.seen[name]
	if !ok {
		seen = make(map[string]struct{}, len(chapters))
		m.seen[name] = seen
	}

	var newChapters []domain.Chapter
	for _, chapter := range chapters {
		if _, exists := seen[chapter.ID]; exists {
			continue
		}
		seen[chapter.ID] = struct{}{}

		if ok {
			newChapters = append(newChapters, chapter)
		}
	}

	return newChapters
}

func (m *Monitor) retry(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(m.opts.Attempts),
		retry.Delay(m.opts.Delay),
		retry.MaxJitter(m.opts.MaxJitter),
		retry.RetryIf(sharedhttp.IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			m.log.Debug().Err(err).Msgf("retrying request, attempt %d", n+1)
		}),
	)
}
