package main

import (
	"log/slog"

	"github.com/meikuraledutech/skilltree/internal/config"
	"github.com/meikuraledutech/skilltree/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skilltree-server",
	Short: "Serves a skill tree over HTTP",
	Long: `skilltree-server keeps a skill tree (a DAG of skills gated by prerequisites)
in memory, persists it after every change and exposes it over a JSON API.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("store", "", "Snapshot store: memory, file, redis or postgres")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.Flags().String("addr", "", "Listen address")

	rootCmd.AddCommand(serveCmd, schemaCmd, validateCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flagValue(cmd, "config"))
	if err != nil {
		return cfg, nil, err
	}

	if v := flagValue(cmd, "store"); v != "" {
		cfg.Store.Kind = v
	}
	if v := flagValue(cmd, "log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := flagValue(cmd, "addr"); v != "" {
		cfg.Addr = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}

// flagValue looks name up on cmd and its parents; unknown flags read as "".
func flagValue(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}
