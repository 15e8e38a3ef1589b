package domain

import (
	"context"
	"fmt"
	"strings"
)

// Source is the contract a content source exposes to the host.
type Source interface {
	String() string
	Info() SourceInfo
	Search(ctx context.Context, query string) ([]MangaTile, error)
	GetMangaDetails(ctx context.Context, mangaID string) (Manga, error)
	GetChapters(ctx context.Context, mangaID string) ([]Chapter, error)
	GetChapterDetails(ctx context.Context, mangaID, chapterID string) (ChapterDetails, error)
}

// SourceInfo is the static metadata the host uses to register and display a source.
type SourceInfo struct {
	Version        string   `json:"version" yaml:"version"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Author         string   `json:"author" yaml:"author"`
	Icon           string   `json:"icon" yaml:"icon"`
	AuthorWebsite  string   `json:"authorWebsite" yaml:"authorWebsite"`
	WebsiteBaseURL string   `json:"websiteBaseURL" yaml:"websiteBaseURL"`
	ContentRating  int      `json:"contentRating" yaml:"contentRating"`
	Language       string   `json:"language" yaml:"language"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type MangaStatus int

const (
	StatusOngoing MangaStatus = iota
	StatusCompleted
)

func (s MangaStatus) String() string {
	switch s {
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "ONGOING"
	}
}

func (s MangaStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *MangaStatus) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "ONGOING":
		*s = StatusOngoing
	case "COMPLETED":
		*s = StatusCompleted
	default:
		return fmt.Errorf("unknown manga status: %q", text)
	}

	return nil
}

// MangaTile is a single search hit.
type MangaTile struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Image string `json:"image" yaml:"image"`
}

type Manga struct {
	ID          string      `json:"id" yaml:"id"`
	Titles      []string    `json:"titles" yaml:"titles"`
	Image       string      `json:"image" yaml:"image"`
	Status      MangaStatus `json:"status" yaml:"status"`
	Author      string      `json:"author" yaml:"author"`
	Tags        []string    `json:"tags" yaml:"tags"`
	Description string      `json:"description" yaml:"description"`
	Rating      float64     `json:"rating" yaml:"rating"`
}

// Title returns the primary title of the manga.
func (m Manga) Title() string {
	if len(m.Titles) == 0 {
		return ""
	}

	return m.Titles[0]
}

type Chapter struct {
	ID       string  `json:"id" yaml:"id"`
	MangaID  string  `json:"mangaId" yaml:"mangaId"`
	Number   float32 `json:"chapNum" yaml:"chapNum"`
	Title    string  `json:"title" yaml:"title"`
	LangCode string  `json:"langCode" yaml:"langCode"`
	// PublishedAt is the publish time in milliseconds since the unix epoch, 0 if unknown.
	PublishedAt int64 `json:"time" yaml:"time"`
}

type ChapterDetails struct {
	ID        string   `json:"id" yaml:"id"`
	MangaID   string   `json:"mangaId" yaml:"mangaId"`
	Pages     []string `json:"pages" yaml:"pages"`
	LongStrip bool     `json:"longStrip" yaml:"longStrip"`
}
