package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search manga by title",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		_, s := querySource()

		query := strings.Join(args, " ")

		tiles, err := s.Search(ctx, query)
		if err != nil {
			fail("Failed to search %s for %q: %v", s, query, err)
		}

		err = printOutput(tiles, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tTITLE\tCOVER")
			for _, tile := range tiles {
				fmt.Fprintf(w, "%s\t%s\t%s\n", tile.ID, tile.Title, tile.Image)
			}
		})
		if err != nil {
			fail("Failed to print results: %v", err)
		}
	},
}
