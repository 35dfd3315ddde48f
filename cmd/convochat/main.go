package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "convochat",
	Short:         "Terminal client for conversation chat rooms",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(os.Stderr)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogFile()
	},
}

var (
	flagHost     string
	flagLogLevel string
	flagLogFile  string

	logFile *os.File
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagHost, "host", "localhost:8000", "chat server host[:port]")
	flags.StringVar(&flagLogLevel, "log-level", "info", "log level (trace, debug, info, warn, error, disabled)")
	flags.StringVar(&flagLogFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(chatCmd, usersCmd, conversationsCmd, createConversationCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute convochat command")
	}
}

func setupLogging(stderr io.Writer) error {
	lvl, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)

	if flagLogFile == "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr})
		return nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}

func closeLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
