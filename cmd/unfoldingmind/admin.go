// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"unfoldingmind/internal/auth"
	"unfoldingmind/internal/database"
	"unfoldingmind/internal/models"
	"unfoldingmind/internal/store"
)

const minPasswordLength = 8

func adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	cmd.AddCommand(adminCreateCommand())
	cmd.AddCommand(adminHashCommand())
	return cmd
}

type adminCreateOptions struct {
	username string
	email    string
	password string
	totp     bool
	qrOut    string
}

func adminCreateCommand() *cobra.Command {
	var opts adminCreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		Long: "Create an administrator account. The password is read from " +
			"standard input when --password is not given.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := commonRun()

			if opts.password == "" {
				pw, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts.password = pw
			}
			if err := validateAdmin(opts.username, opts.email, opts.password); err != nil {
				return err
			}

			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return createAdmin(ctx, store.NewAdminStore(db), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "login name (required)")
	cmd.Flags().StringVar(&opts.email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "password (read from stdin when omitted)")
	cmd.Flags().BoolVar(&opts.totp, "totp", false, "enroll a TOTP second factor")
	cmd.Flags().StringVar(&opts.qrOut, "qr-out", "", "write the TOTP enrollment QR code PNG to this path")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// adminCreator is the part of store.AdminStore used to create accounts.
type adminCreator interface {
	Create(ctx context.Context, username, email, passwordHash string, totpSecret *string) (*models.Admin, error)
}

// createAdmin hashes the password, optionally enrolls TOTP, and stores the
// account. Enrollment details are printed to out.
func createAdmin(ctx context.Context, admins adminCreator, opts adminCreateOptions, out io.Writer) error {
	hash, err := auth.HashPassword(opts.password)
	if err != nil {
		return err
	}

	var secret *string
	var enrollment *auth.TOTPEnrollment
	if opts.totp {
		enrollment, err = auth.NewTOTP(opts.username)
		if err != nil {
			return err
		}
		secret = &enrollment.Secret
	}

	admin, err := admins.Create(ctx, opts.username, opts.email, hash, secret)
	if errors.Is(err, store.ErrDuplicateAdmin) {
		return fmt.Errorf("an admin with username %q or email %q already exists", opts.username, opts.email)
	}
	if err != nil {
		return err
	}
	slog.Info("admin created", "id", admin.ID, "username", admin.Username, "totp", opts.totp)
	fmt.Fprintf(out, "Created admin %q (id %d).\n", admin.Username, admin.ID)

	if enrollment == nil {
		return nil
	}
	fmt.Fprintf(out, "TOTP secret: %s\nTOTP URL:    %s\n", enrollment.Secret, enrollment.URL)
	if opts.qrOut != "" {
		if err := os.WriteFile(opts.qrOut, enrollment.QRCode, 0o600); err != nil {
			return fmt.Errorf("write qr code: %w", err)
		}
		fmt.Fprintf(out, "QR code written to %s\n", opts.qrOut)
	}
	return nil
}

func adminHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the bcrypt hash of a password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// readPassword reads the first line of r, without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

func validateAdmin(username, email, password string) error {
	if strings.TrimSpace(username) == "" || username != strings.TrimSpace(username) {
		return errors.New("username must be non-empty without surrounding spaces")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address %q", email)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
