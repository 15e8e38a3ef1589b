package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"weebdex/internal/domain"
	"weebdex/internal/parse"
	"weebdex/internal/requestmanager"
	"weebdex/internal/sharedhttp"
	"weebdex/internal/utils"
)

const (
	weebdexURL  = "https://weebdex.org"
	searchLimit = 20
	langCode    = "en"

	// every call is scheduled with the same priority
	schedulePriority = 1
)

var WeebdexInfo = domain.SourceInfo{
	Version:        "1.0.0",
	Name:           "Weebdex",
	Description:    "Read all manga directly from Weebdex.org",
	Author:         "weebdex",
	Icon:           "icon.png",
	AuthorWebsite:  weebdexURL,
	WebsiteBaseURL: weebdexURL,
	ContentRating:  13,
	Language:       langCode,
}

// Scheduler admits requests against the upstream API.
type Scheduler interface {
	Schedule(ctx context.Context, req requestmanager.Request, priority int) (requestmanager.Response, error)
}

type Option func(*weebdex)

// WithBaseURL points the source at another origin than the one in its metadata.
func WithBaseURL(baseURL string) Option {
	return func(w *weebdex) {
		if baseURL != "" {
			w.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

type weebdex struct {
	Metadata  domain.SourceInfo
	BaseURL   string
	Scheduler Scheduler
}

type weebdexSearch struct {
	Results *[]weebdexMangaTile `json:"results"`
}

type weebdexMangaTile struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cover string `json:"cover"`
}

type weebdexManga struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Cover       string    `json:"cover"`
	Completed   looseBool `json:"completed"`
	Authors     []string  `json:"authors"`
	Genres      []string  `json:"genres"`
	Description string    `json:"description"`
}

type weebdexChapters struct {
	Chapters *[]struct {
		ID     string          `json:"id"`
		Number json.RawMessage `json:"number"`
		Title  string          `json:"title"`
		Date   json.RawMessage `json:"date"`
	} `json:"chapters"`
}

type weebdexChapter struct {
	Pages *[]string `json:"pages"`
}

// New returns a source for the given metadata block. The same client serves
// every mirror, only the metadata differs.
func New(info domain.SourceInfo, scheduler Scheduler, opts ...Option) domain.Source {
	w := &weebdex{
		Metadata:  info,
		BaseURL:   strings.TrimRight(info.WebsiteBaseURL, "/"),
		Scheduler: scheduler,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func NewWeebdex(scheduler Scheduler, opts ...Option) domain.Source {
	return New(WeebdexInfo, scheduler, opts...)
}

func (w *weebdex) String() string {
	return w.Metadata.Name
}

func (w *weebdex) Info() domain.SourceInfo {
	return w.Metadata
}

// Search returns one tile per search hit, in upstream order.
func (w *weebdex) Search(ctx context.Context, query string) ([]domain.MangaTile, error) {
	var searchResp weebdexSearch

	path := fmt.Sprintf("%s/api/manga?title=%s&limit=%d", w.BaseURL, utils.EncodeURIComponent(query), searchLimit)

	if err := w.fetch(ctx, "search", path, &searchResp); err != nil {
		return nil, err
	}

	if searchResp.Results == nil {
		return nil, &domain.ParseError{Op: "search", Field: "results"}
	}

	tiles := make([]domain.MangaTile, 0, len(*searchResp.Results))
	for i, m := range *searchResp.Results {
		if m.ID == "" {
			return nil, &domain.ParseError{Op: "search", Field: fmt.Sprintf("results[%d].id", i)}
		}

		tiles = append(tiles, domain.MangaTile{
			ID:    m.ID,
			Title: m.Title,
			Image: m.Cover,
		})
	}

	return tiles, nil
}

func (w *weebdex) GetMangaDetails(ctx context.Context, mangaID string) (domain.Manga, error) {
	if mangaID == "" {
		return domain.Manga{}, fmt.Errorf("manga id is required: %w", domain.ErrInvalidInput)
	}

	var mangaResp weebdexManga

	if err := w.fetch(ctx, "manga details", w.BaseURL+"/api/manga/"+mangaID, &mangaResp); err != nil {
		return domain.Manga{}, err
	}

	if mangaResp.ID == "" {
		return domain.Manga{}, &domain.ParseError{Op: "manga details", Field: "id"}
	}

	status := domain.StatusOngoing
	if mangaResp.Completed {
		status = domain.StatusCompleted
	}

	author := strings.Join(mangaResp.Authors, ", ")
	if author == "" {
		author = "Unknown"
	}

	return domain.Manga{
		ID:          mangaResp.ID,
		Titles:      []string{mangaResp.Title},
		Image:       mangaResp.Cover,
		Status:      status,
		Author:      author,
		Tags:        uniqueTags(mangaResp.Genres),
		Description: mangaResp.Description,
		Rating:      0,
	}, nil
}

// GetChapters returns the chapters of a manga in upstream order.
func (w *weebdex) GetChapters(ctx context.Context, mangaID string) ([]domain.Chapter, error) {
	if mangaID == "" {
		return nil, fmt.Errorf("manga id is required: %w", domain.ErrInvalidInput)
	}

	var chapterResp weebdexChapters

	if err := w.fetch(ctx, "chapters", w.BaseURL+"/api/manga/"+mangaID+"/chapters", &chapterResp); err != nil {
		return nil, err
	}

	if chapterResp.Chapters == nil {
		return nil, &domain.ParseError{Op: "chapters", Field: "chapters"}
	}

	chapters := make([]domain.Chapter, 0, len(*chapterResp.Chapters))
	for i, c := range *chapterResp.Chapters {
		if c.ID == "" {
			return nil, &domain.ParseError{Op: "chapters", Field: fmt.Sprintf("chapters[%d].id", i)}
		}

		chapters = append(chapters, domain.Chapter{
			ID:          c.ID,
			MangaID:     mangaID,
			Number:      parse.ChapterNumber(rawText(c.Number)),
			Title:       c.Title,
			LangCode:    langCode,
			PublishedAt: publishedAt(c.Date),
		})
	}

	return chapters, nil
}

// GetChapterDetails returns the page image urls of a chapter. The manga id is
// not part of the request, it is only carried into the result.
func (w *weebdex) GetChapterDetails(ctx context.Context, mangaID, chapterID string) (domain.ChapterDetails, error) {
	if chapterID == "" {
		return domain.ChapterDetails{}, fmt.Errorf("chapter id is required: %w", domain.ErrInvalidInput)
	}

	var chapterResp weebdexChapter

	if err := w.fetch(ctx, "chapter details", w.BaseURL+"/api/chapter/"+chapterID, &chapterResp); err != nil {
		return domain.ChapterDetails{}, err
	}

	if chapterResp.Pages == nil {
		return domain.ChapterDetails{}, &domain.ParseError{Op: "chapter details", Field: "pages"}
	}

	return domain.ChapterDetails{
		ID:        chapterID,
		MangaID:   mangaID,
		Pages:     *chapterResp.Pages,
		LongStrip: false,
	}, nil
}

func (w *weebdex) fetch(ctx context.Context, op, path string, v any) error {
	resp, err := w.Scheduler.Schedule(ctx, requestmanager.Request{URL: path, Method: http.MethodGet}, schedulePriority)
	if err != nil {
		return err
	}

	if err := sharedhttp.CheckStatusCode(resp.Status); err != nil {
		return &domain.TransportError{Op: op, URL: path, StatusCode: resp.Status, Err: err}
	}

	if err := decodeBody(resp.Data, v); err != nil {
		return &domain.ParseError{Op: op, Err: err}
	}

	return nil
}

// decodeBody decodes a JSON body that may itself be wrapped in a JSON string.
func decodeBody(data []byte, v any) error {
	body := bytes.TrimSpace(data)

	if len(body) > 0 && body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return err
		}
		body = []byte(inner)
	}

	return json.Unmarshal(body, v)
}

// rawText returns a JSON string's content, or the literal text of any other value.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}

// publishedAt accepts a date string or a number of epoch milliseconds.
func publishedAt(raw json.RawMessage) int64 {
	text := rawText(raw)

	if len(raw) > 0 && raw[0] != '"' {
		if ms, err := strconv.ParseFloat(text, 64); err == nil {
			return int64(ms)
		}
		return 0
	}

	return parse.EpochMillis(text)
}

func uniqueTags(genres []string) []string {
	tags := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))

	for _, genre := range genres {
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		tags = append(tags, genre)
	}

	return tags
}

// looseBool is true only for the JSON value true or the string "true".
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case bool:
		*b = looseBool(t)
	case string:
		*b = t == "true"
	default:
		*b = false
	}

	return nil
}
