package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weebdex",
	Short: "Search and read manga metadata from Weebdex.",
	Long: `Search and read manga metadata from Weebdex.

Provide a configuration file using one of the following methods:
1. Use the --config <path> or -c <path> flag.
2. Place a config.yaml file in the default user configuration directory (e.g., ~/.config/weebdex/).
3. Place a config.yaml file a folder inside your home directory (e.g., ~/.weebdex/).
4. Place a config.yaml file in the directory of the binary.

Every setting can be overridden with a WEEBDEX__ prefixed environment variable,
e.g. WEEBDEX__REQUESTS_PER_SECOND=2.`,
}

func init() {
	initRootFlags()
	initChaptersFlags()
	initServeFlags()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(mangaCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(serveCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
