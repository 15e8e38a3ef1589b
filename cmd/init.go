package cmd

var (
	configPath string
	verbose    bool
	output     string

	chapterNumbers string
	first          bool
	latest         bool

	host string
	port int
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"specifies the path to your config directory",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"log requests to stderr",
	)
	rootCmd.PersistentFlags().StringVarP(
		&output,
		"output",
		"o",
		"text",
		"specifies the output format: text, json or yaml",
	)
}

func initChaptersFlags() {
	chaptersCmd.Flags().StringVarP(
		&chapterNumbers,
		"chapters",
		"C",
		"",
		"specifies the chapter numbers you want to list, e.g. 1-5,7",
	)
	chaptersCmd.Flags().BoolVarP(
		&first,
		"first",
		"1",
		false,
		"only list the first chapter",
	)
	chaptersCmd.Flags().BoolVarP(
		&latest,
		"latest",
		"L",
		false,
		"only list the latest chapter",
	)

	chaptersCmd.MarkFlagsMutuallyExclusive("first", "chapters")
	chaptersCmd.MarkFlagsMutuallyExclusive("latest", "chapters")
	chaptersCmd.MarkFlagsMutuallyExclusive("first", "latest")
}

func initServeFlags() {
	serveCmd.Flags().StringVar(
		&host,
		"host",
		"",
		"overrides the host from the config",
	)
	serveCmd.Flags().IntVarP(
		&port,
		"port",
		"p",
		0,
		"overrides the port from the config",
	)
}
