package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages <mangaID> <chapterID>",
	Short: "List the page image urls of a chapter",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		_, s := querySource()

		details, err := s.GetChapterDetails(ctx, args[0], args[1])
		if err != nil {
			fail("Failed to get pages for chapter %q from %s: %v", args[1], s, err)
		}

		err = printOutput(details, func(w io.Writer) {
			for i, page := range details.Pages {
				fmt.Fprintf(w, "%03d\t%s\n", i+1, page)
			}
		})
		if err != nil {
			fail("Failed to print pages: %v", err)
		}
	},
}
