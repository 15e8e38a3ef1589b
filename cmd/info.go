package cmd

import (
	"fmt"
	"io"

	"weebdex/internal/source"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display the source metadata",
	Run: func(_ *cobra.Command, _ []string) {
		info := source.WeebdexInfo

		err := printOutput(info, func(w io.Writer) {
			fmt.Fprintf(w, "Name:\t%s\n", info.Name)
			fmt.Fprintf(w, "Version:\t%s\n", info.Version)
			fmt.Fprintf(w, "Description:\t%s\n", info.Description)
			fmt.Fprintf(w, "Author:\t%s\n", info.Author)
			fmt.Fprintf(w, "Website:\t%s\n", info.WebsiteBaseURL)
			fmt.Fprintf(w, "Language:\t%s\n", info.Language)
			fmt.Fprintf(w, "Content rating:\t%d\n", info.ContentRating)
		})
		if err != nil {
			fail("Failed to print source info: %v", err)
		}
	},
}
