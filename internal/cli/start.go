package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexus-ai/nexus/internal/channels"
	"github.com/nexus-ai/nexus/internal/config"
	"github.com/nexus-ai/nexus/internal/logging"
	"github.com/nexus-ai/nexus/internal/runtime"
	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assistant on all enabled channels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			application, err := buildApp(cfg)
			if err != nil {
				return err
			}

			logging.Logger().Info(
				"starting assistant",
				"bot", application.profile.BotName(),
				"user", application.profile.UserName(),
				"home", cfg.HomeDir,
			)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.monitor.Start(runCtx); err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := application.monitor.Stop(shutdownCtx); err != nil {
					logging.Logger().Warn("monitor shutdown failed", "err", err)
				}
			}()

			listeners := map[string]runtime.Listener{}
			if cfg.CLIChannel().Enabled {
				listeners["cli"] = channels.NewCLI(
					cmd.InOrStdin(),
					cmd.OutOrStdout(),
					application.bannerLines()...,
				)
			}
			if tg := cfg.TelegramChannel(); tg.Enabled {
				listeners["telegram"] = channels.NewTelegram(tg.Token, tg.AllowedUsers)
			}
			if len(listeners) == 0 {
				return errors.New("no channels enabled")
			}

			listenCtx, cancelListen := context.WithCancel(runCtx)
			defer cancelListen()

			errCh := make(chan error, len(listeners))
			for name, listener := range listeners {
				go func(name string, listener runtime.Listener) {
					err := listener.Listen(listenCtx, application.bot)
					if err != nil {
						logging.Logger().Error("channel stopped", "channel", name, "err", err)
					} else {
						logging.Logger().Info("channel stopped", "channel", name)
					}
					errCh <- err
				}(name, listener)
			}

			// The first channel to stop brings the process down; an
			// interactive /exit is a normal shutdown.
			select {
			case <-runCtx.Done():
				return nil
			case err := <-errCh:
				cancelListen()
				return err
			}
		},
	}
}
