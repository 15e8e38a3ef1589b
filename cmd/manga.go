package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var mangaCmd = &cobra.Command{
	Use:   "manga <mangaID>",
	Short: "Show the details of a manga",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		_, s := querySource()

		manga, err := s.GetMangaDetails(ctx, args[0])
		if err != nil {
			fail("Failed to get manga %q from %s: %v", args[0], s, err)
		}

		err = printOutput(manga, func(w io.Writer) {
			fmt.Fprintf(w, "ID:\t%s\n", manga.ID)
			fmt.Fprintf(w, "Title:\t%s\n", strings.Join(manga.Titles, " / "))
			fmt.Fprintf(w, "Author:\t%s\n", manga.Author)
			fmt.Fprintf(w, "Status:\t%s\n", manga.Status)
			fmt.Fprintf(w, "Tags:\t%s\n", strings.Join(manga.Tags, ", "))
			fmt.Fprintf(w, "Cover:\t%s\n", manga.Image)
			if manga.Description != "" {
				fmt.Fprintf(w, "\n%s\n", manga.Description)
			}
		})
		if err != nil {
			fail("Failed to print manga: %v", err)
		}
	},
}
