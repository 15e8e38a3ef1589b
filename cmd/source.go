package cmd

import (
	"fmt"
	"os"

	"weebdex/internal/buildinfo"
	"weebdex/internal/config"
	"weebdex/internal/domain"
	"weebdex/internal/logger"
	"weebdex/internal/requestmanager"
	"weebdex/internal/source"

	"github.com/rs/zerolog"
)

// newSource wires the request manager and the Weebdex client from the config.
func newSource(cfg *domain.Config, log zerolog.Logger) domain.Source {
	rm := requestmanager.New(requestmanager.Options{
		RequestsPerSecond: cfg.RequestsPerSecond,
		RequestTimeout:    cfg.Timeout(),
		UserAgent:         "weebdex/" + buildinfo.Version,
		Logger:            log.With().Str("module", "requestmanager").Logger(),
	})

	return source.NewWeebdex(rm, source.WithBaseURL(cfg.BaseURL))
}

// querySource is used by the one-shot commands, which only log when asked to.
func querySource() (*config.AppConfig, domain.Source) {
	cfg := config.New(configPath, buildinfo.Version)

	log := zerolog.Nop()
	if verbose {
		log = logger.New(cfg.Config).With().Logger()
	}

	return cfg, newSource(cfg.Config, log)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
