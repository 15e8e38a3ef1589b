package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weebdex/internal/buildinfo"
	"weebdex/internal/config"
	"weebdex/internal/logger"
	"weebdex/internal/server"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the source operations over http",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.New(configPath, buildinfo.Version)

		log := logger.New(cfg.Config)

		cfg.DynamicReload(log)

		if host != "" {
			cfg.Config.Host = host
		}
		if port != 0 {
			cfg.Config.Port = port
		}

		src := newSource(cfg.Config, log.With().Logger())
		srv := server.New(src, log.With().Str("module", "http").Logger(), cfg.Config.Host, cfg.Config.Port)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				log.Fatal().Err(err).Msgf("could not listen on %s", srv.Addr())
			}
			return
		case sig := <-sigCh:
			log.Info().Msgf("received signal: %s, shutting down server", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down server")
		}
	},
}
