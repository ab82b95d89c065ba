package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tripshare/internal/config"
	apperrors "tripshare/internal/errors"
	"tripshare/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFile    string

	cfg      *config.Config
	log      *logrus.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "tripshare",
	Short: "Trip share link tool",
	Long: `Tripshare keeps a small local list of trips and hands out their share links.

Every trip gets a secret token; the share link is <base_url>/t/<token>.
The share screen copies that link to the clipboard and confirms the copy
for a moment, or tells you to copy it manually when the clipboard refuses.

Common usage:
  tripshare trip new --title "Summer" --destination Lisbon --start 2026-07-01 --days 10
  tripshare trip list                       # List trips and their tokens
  tripshare trip item add <token> --category hotel --cost 480,00
  tripshare trip ics <token> -o trip.ics    # Calendar export
  tripshare share <token>                   # Interactive copy screen
  tripshare copy <token>                    # Copy once and print the result`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	l, closeFn, err := logging.Open(level, logFile)
	if err != nil {
		return apperrors.WrapConfigError(err, "logging")
	}
	log = l
	closeLog = closeFn

	log.WithFields(logrus.Fields{
		"command":   cmd.Name(),
		"clipboard": cfg.Clipboard,
		"db":        cfg.DBPath,
	}).Debug("configuration loaded")
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", appErr.UserFriendlyMessage())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
