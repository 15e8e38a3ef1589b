package monitor

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"weebdex/internal/domain"
	"weebdex/internal/logger"
	"weebdex/internal/sharedhttp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu           sync.Mutex
	chapters     []domain.Chapter
	failures     []error
	chapterCalls int
}

func (f *fakeSource) String() string { return "Fake" }
func (f *fakeSource) Info() domain.SourceInfo { return domain.SourceInfo{Name: "Fake"} }
func (f *fakeSource) Search(context.Context, string) ([]domain.MangaTile, error) {
	return nil, nil
}

func (f *fakeSource) GetMangaDetails(_ context.Context, mangaID string) (domain.Manga, error) {
	return domain.Manga{ID: mangaID, Titles: []string{"Foo"}}, nil
}

func (f *fakeSource) GetChapters(_ context.Context, _ string) ([]domain.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.chapterCalls++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return nil, err
	}

	out := make([]domain.Chapter, len(f.chapters))
	copy(out, f.chapters)
	return out, nil
}

func (f *fakeSource) GetChapterDetails(context.Context, string, string) (domain.ChapterDetails, error) {
	return domain.ChapterDetails{}, nil
}

func (f *fakeSource) setChapters(chapters ...domain.Chapter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chapters = chapters
}

func newTestMonitor(src domain.Source) *Monitor {
	log := logger.New(&domain.Config{LogLevel: "ERROR"})
	return New(src, log, Options{Delay: time.Millisecond, MaxJitter: time.Millisecond})
}

func statusError(code int) error {
	return &domain.TransportError{Op: "chapters", StatusCode: code, Err: sharedhttp.CheckStatusCode(code)}
}

func TestMonitor_Check(t *testing.T) {
	src := &fakeSource{}
	src.setChapters(domain.Chapter{ID: "c1", Number: 1})

	m := newTestMonitor(src)
	monitored := &domain.MonitoredManga{Manga: "m1"}

	newChapters, err := m.Check(context.Background(), "foo", monitored)
	require.NoError(t, err)
	assert.Empty(t, newChapters, "first check only seeds")

	src.setChapters(
		domain.Chapter{ID: "c3", Number: 3},
		domain.Chapter{ID: "c2", Number: 2},
		domain.Chapter{ID: "c1", Number: 1},
	)

	newChapters, err = m.Check(context.Background(), "foo", monitored)
	require.NoError(t, err)
	require.Len(t, newChapters, 2)
	assert.Equal(t, "c3", newChapters[0].ID)
	assert.Equal(t, "c2", newChapters[1].ID)

	newChapters, err = m.Check(context.Background(), "foo", monitored)
	require.NoError(t, err)
	assert.Empty(t, newChapters)
}

func TestMonitor_Check_RetriesTransientErrors(t *testing.T) {
	src := &fakeSource{failures: []error{statusError(http.StatusServiceUnavailable)}}
	src.setChapters(domain.Chapter{ID: "c1", Number: 1})

	m := newTestMonitor(src)

	_, err := m.Check(context.Background(), "foo", &domain.MonitoredManga{Manga: "m1"})
	require.NoError(t, err)
	assert.Equal(t, 2, src.chapterCalls)
}

func TestMonitor_Check_StopsOnUnrecoverable(t *testing.T) {
	src := &fakeSource{failures: []error{
		statusError(http.StatusForbidden),
		statusError(http.StatusForbidden),
	}}

	m := newTestMonitor(src)

	_, err := m.Check(context.Background(), "foo", &domain.MonitoredManga{Manga: "m1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, 1, src.chapterCalls)
}

func TestMonitor_Check_ParseErrorNotRetried(t *testing.T) {
	src := &fakeSource{failures: []error{&domain.ParseError{Op: "chapters", Field: "chapters"}}}

	m := newTestMonitor(src)

	_, err := m.Check(context.Background(), "foo", &domain.MonitoredManga{Manga: "m1"})
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Equal(t, 1, src.chapterCalls)
}
