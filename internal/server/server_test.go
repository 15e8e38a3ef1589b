package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"weebdex/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	err       error
	lastQuery string
	lastManga string
}

func (f *fakeSource) String() string { return "Fake" }

func (f *fakeSource) Info() domain.SourceInfo {
	return domain.SourceInfo{Name: "Fake", Version: "1.0.0", Language: "en"}
}

func (f *fakeSource) Search(_ context.Context, query string) ([]domain.MangaTile, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return []domain.MangaTile{{ID: "42", Title: "Foo", Image: "http://x/y.png"}}, nil
}

func (f *fakeSource) GetMangaDetails(_ context.Context, mangaID string) (domain.Manga, error) {
	f.lastManga = mangaID
	if f.err != nil {
		return domain.Manga{}, f.err
	}
	return domain.Manga{ID: mangaID, Titles: []string{"Foo"}, Status: domain.StatusCompleted, Author: "Unknown", Tags: []string{}}, nil
}

func (f *fakeSource) GetChapters(_ context.Context, mangaID string) ([]domain.Chapter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Chapter{{ID: "c1", MangaID: mangaID, Number: 1.5, LangCode: "en"}}, nil
}

func (f *fakeSource) GetChapterDetails(_ context.Context, mangaID, chapterID string) (domain.ChapterDetails, error) {
	if f.err != nil {
		return domain.ChapterDetails{}, f.err
	}
	return domain.ChapterDetails{ID: chapterID, MangaID: mangaID, Pages: []string{"a.png"}}, nil
}

func do(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	src := &fakeSource{}
	s := New(src, zerolog.Nop(), "127.0.0.1", 0)

	rec := do(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, "/api/search?q=one+piece")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "one piece", src.lastQuery)
	assert.JSONEq(t, `[{"id":"42","title":"Foo","image":"http://x/y.png"}]`, rec.Body.String())

	rec = do(t, s, "/api/manga/m1")
	require.Equal(t, http.StatusOK, rec.Code)
	var manga domain.Manga
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &manga))
	assert.Equal(t, "m1", manga.ID)
	assert.Equal(t, domain.StatusCompleted, manga.Status)
	assert.Contains(t, rec.Body.String(), `"status":"COMPLETED"`)

	rec = do(t, s, "/api/manga/m1/chapters")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"c1","mangaId":"m1","chapNum":1.5,"title":"","langCode":"en","time":0}]`, rec.Body.String())

	rec = do(t, s, "/api/manga/m1/chapters/c1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"c1","mangaId":"m1","pages":["a.png"],"longStrip":false}`, rec.Body.String())

	rec = do(t, s, "/api/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Fake"`)
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{name: "upstream 404", err: &domain.TransportError{Op: "manga details", StatusCode: http.StatusNotFound, Err: errors.New("not found")}, want: http.StatusNotFound, code: "UPSTREAM_STATUS"},
		{name: "network", err: &domain.TransportError{Op: "GET", Err: errors.New("connection refused")}, want: http.StatusBadGateway, code: "UPSTREAM_UNAVAILABLE"},
		{name: "timeout", err: &domain.TransportError{Op: "GET", Err: context.DeadlineExceeded}, want: http.StatusGatewayTimeout, code: "UPSTREAM_TIMEOUT"},
		{name: "parse", err: &domain.ParseError{Op: "chapters", Field: "chapters"}, want: http.StatusBadGateway, code: "UPSTREAM_MALFORMED"},
		{name: "invalid input", err: domain.ErrInvalidInput, want: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError, code: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeSource{err: tt.err}, zerolog.Nop(), "127.0.0.1", 0)

			rec := do(t, s, "/api/manga/m1")
			assert.Equal(t, tt.want, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestServer_Addr(t *testing.T) {
	s := New(&fakeSource{}, zerolog.Nop(), "127.0.0.1", 7474)
	assert.Equal(t, "127.0.0.1:7474", s.Addr())
}
