package main

import (
	"os"
	"os/signal"
	"syscall"

	"deedles.dev/wlr/internal/log"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the compositor",
	Long: `Start a headless compositor and serve clients until interrupted.

The compositor creates the configured number of headless outputs, a
keyboard, and a pointer, and listens on the configured socket.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		s, err := newServer(cfg)
		if err != nil {
			return err
		}
		defer s.c.Destroy()

		if sock := s.c.Socket(); sock != "" {
			log.Info("listening", "socket", sock)
		}
		return s.c.Run(ctx)
	},
}
