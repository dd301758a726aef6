// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for The Unfolding Mind blog backend.
// The default command serves the HTTP API; subcommands run migrations
// and bootstrap administrator accounts.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"unfoldingmind/internal/config"
)

const programName = "unfoldingmind"

var globalFlags = struct {
	debug bool
}{}

// commonRun installs the default logger and loads configuration. Text
// output is used in development, JSON everywhere else.
func commonRun() *config.Config {
	cfg, err := config.Load()

	level := slog.LevelInfo
	if globalFlags.debug || (err == nil && cfg.IsDev()) {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: globalFlags.debug}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if err == nil && cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler).With("component", programName))

	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "The Unfolding Mind blog API server",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun(commonRun())
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(adminCommand())

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
