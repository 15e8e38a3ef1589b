package cmd

import (
	"fmt"

	"weebdex/internal/buildinfo"
	"weebdex/internal/source"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version info",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("Version:", buildinfo.Version)
		fmt.Println("Commit:", buildinfo.Commit)
		fmt.Println("Build date:", buildinfo.Date)
		fmt.Println()
		fmt.Printf("Source: %s %s\n", source.WeebdexInfo.Name, source.WeebdexInfo.Version)
	},
}
