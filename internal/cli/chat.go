package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nexus-ai/nexus/internal/channels"
	"github.com/nexus-ai/nexus/internal/config"
	"github.com/nexus-ai/nexus/internal/runtime"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a message (or start interactive chat without -p)",
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

			trimmedPrompt := strings.TrimSpace(prompt)
			if trimmedPrompt != "" {
				if strings.HasPrefix(trimmedPrompt, "/") {
					return fmt.Errorf("slash commands are not supported in one-shot -p mode")
				}
				writer := &singleShotWriter{out: cmd.OutOrStdout()}
				return application.bot.HandleMessage(cmd.Context(), writer, &runtime.Message{Text: trimmedPrompt})
			}

			listener := channels.NewCLI(
				cmd.InOrStdin(),
				cmd.OutOrStdout(),
				application.bannerLines()...,
			)
			return listener.Listen(cmd.Context(), application.bot)
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Prompt message")

	return cmd
}

type singleShotWriter struct {
	out io.Writer
}

// WriteMessage writes one response message for one-shot prompt mode.
func (w *singleShotWriter) WriteMessage(_ context.Context, text string) error {
	fmt.Fprintln(w.out, text)
	return nil
}
