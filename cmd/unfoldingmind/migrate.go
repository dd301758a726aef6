// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"unfoldingmind/internal/database"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := commonRun()

			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				slog.Error("failed to connect to database", "error", err)
				os.Exit(1)
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				slog.Error("failed to run migrations", "error", err)
				os.Exit(1)
			}
		},
	}
}
