package cmd

import (
	"fmt"
	"io"
	"time"

	"weebdex/internal/domain"
	"weebdex/internal/parse"
	"weebdex/internal/templater"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters <mangaID>",
	Short: "List the chapters of a manga",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, s := querySource()

		chapters, err := s.GetChapters(ctx, args[0])
		if err != nil {
			fail("Failed to get chapters for %q from %s: %v", args[0], s, err)
		}

		chapters, err = selectChapters(chapters)
		if err != nil {
			fail("Failed to parse chapter selection for %q: %v", args[0], err)
		}

		if output != "text" && output != "" {
			if err := printOutput(chapters, nil); err != nil {
				fail("Failed to print chapters: %v", err)
			}
			return
		}

		// the title is only needed for labels
		manga, err := s.GetMangaDetails(ctx, args[0])
		if err != nil {
			fail("Failed to get manga %q from %s: %v", args[0], s, err)
		}

		err = printOutput(chapters, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tCHAPTER\tPUBLISHED")
			for _, chapter := range chapters {
				label := templater.New(manga, chapter).ExecTemplate(cfg.Config.NamingTemplate)
				fmt.Fprintf(w, "%s\t%s\t%s\n", chapter.ID, label, published(chapter))
			}
		})
		if err != nil {
			fail("Failed to print chapters: %v", err)
		}
	},
}

func selectChapters(chapters []domain.Chapter) ([]domain.Chapter, error) {
	switch {
	case first, latest:
		lowest, highest, err := parse.MinAndMax(chapters, func(c domain.Chapter) float32 { return c.Number })
		if err != nil {
			return []domain.Chapter{}, nil
		}
		if first {
			return []domain.Chapter{lowest}, nil
		}
		return []domain.Chapter{highest}, nil

	case chapterNumbers != "":
		return parse.ChapterSelection(chapterNumbers, chapters)

	default:
		return chapters, nil
	}
}

func published(chapter domain.Chapter) string {
	if chapter.PublishedAt == 0 {
		return "unknown"
	}

	return humanize.Time(time.UnixMilli(chapter.PublishedAt))
}
