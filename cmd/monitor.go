package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"weebdex/internal/buildinfo"
	"weebdex/internal/config"
	"weebdex/internal/logger"
	"weebdex/internal/monitor"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the configured manga for new chapters",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// read config
		cfg := config.New(configPath, buildinfo.Version)

		// init new logger
		log := logger.New(cfg.Config)

		if err := cfg.UpdateConfig(); err != nil {
			log.Error().Err(err).Msgf("error updating config")
		}

		// init dynamic config
		cfg.DynamicReload(log)

		if len(cfg.Config.MonitoredManga) == 0 {
			log.Fatal().Msg("no monitored manga configured")
		}

		src := newSource(cfg.Config, log.With().Logger())
		m := monitor.New(src, log, monitor.Options{NamingTemplate: cfg.Config.NamingTemplate})

		checkAll := func() {
			wg := sync.WaitGroup{}

			for name, monitored := range cfg.Config.MonitoredManga {
				if monitored == nil || monitored.Manga == "" {
					log.Error().Msgf("monitored manga %s has no manga id", name)
					continue
				}

				name, monitored := name, monitored
				wg.Add(1)
				go func() {
					defer wg.Done()

					if _, err := m.Check(ctx, name, monitored); err != nil {
						log.Error().Err(err).Str("name", name).Msgf("error checking %s on %s", monitored.Manga, src)
					}
				}()
			}

			wg.Wait()
		}

		log.Info().Msgf("starting to monitor %d configured manga every %d minutes", len(cfg.Config.MonitoredManga), cfg.Config.CheckInterval)

		ticker := time.NewTicker(time.Duration(cfg.Config.CheckInterval) * time.Minute)
		defer ticker.Stop()

		done := make(chan struct{})

		go func() {
			defer close(done)

			// seed the known chapters so only later releases are reported
			checkAll()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					checkAll()
				}
			}
		}()

		// set up a channel to catch signals for graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		fmt.Printf("received signal: %s, stopping monitoring.\n", <-sigCh)
		cancel()
		<-done
	},
}
