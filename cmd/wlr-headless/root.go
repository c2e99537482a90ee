package main

import (
	"deedles.dev/wlr/config"
	"deedles.dev/wlr/internal/log"
	"github.com/spf13/cobra"
)

// Version is set during build.
var Version = "0.1.0-dev"

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:          "wlr-headless",
		Short:        "Run a headless Wayland compositor",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to wlr.toml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the configuration and applies its log level. The
// --log-level flag takes precedence over the file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case logLevel != "":
		log.SetLevel(logLevel)
	case cfg.LogLevel != "":
		log.SetLevel(cfg.LogLevel)
	}
	return cfg, nil
}
