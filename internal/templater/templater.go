package templater

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"weebdex/internal/domain"
	"weebdex/internal/utils"
)

const DefaultTemplate = "{manga:<.>} Ch. {num:3}{title: - <.>}"

var templatePattern = regexp.MustCompile(`{((\w+?)(:.*?)?)}`)

// Templater renders chapter labels such as "Foo Ch. 012.5 - Title".
type Templater struct {
	Manga   domain.Manga
	Chapter domain.Chapter
}

func New(manga domain.Manga, chapter domain.Chapter) *Templater {
	return &Templater{
		Manga:   manga,
		Chapter: chapter,
	}
}

func (t *Templater) handleNum(options string) string {
	if options == "" {
		return fmt.Sprintf("%g", t.Chapter.Number)
	}

	length, _ := strconv.ParseInt(strings.ReplaceAll(options, ":", ""), 10, 32)
	return utils.PadFloat(t.Chapter.Number, int(length))
}

func (t *Templater) handleMangaTitle(options string) string {
	return fill(options, t.Manga.Title())
}

func (t *Templater) handleChapterTitle(options string) string {
	return fill(options, t.Chapter.Title)
}

func (t *Templater) handleID(options string) string {
	return fill(options, t.Chapter.ID)
}

// fill substitutes value into the <.> placeholder of options, or drops the
// whole group when value is empty.
func fill(options, value string) string {
	if value == "" {
		return ""
	}

	if options == "" {
		return value
	}

	cleanString := strings.TrimPrefix(options, ":")
	return strings.ReplaceAll(cleanString, "<.>", value)
}

func (t *Templater) ExecTemplate(template string) string {
	if template == "" {
		template = DefaultTemplate
	}

	newString := template
	for _, match := range templatePattern.FindAllStringSubmatch(template, -1) {
		replace := match[0]

		options := match[3]
		switch match[2] {
		case "num":
			replace = t.handleNum(options)
		case "manga":
			replace = t.handleMangaTitle(options)
		case "title":
			replace = t.handleChapterTitle(options)
		case "id":
			replace = t.handleID(options)
		}

		newString = strings.Replace(newString, match[0], replace, 1)
	}

	return newString
}
