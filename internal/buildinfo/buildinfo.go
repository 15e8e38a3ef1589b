package buildinfo

// set via -ldflags at build time
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)
