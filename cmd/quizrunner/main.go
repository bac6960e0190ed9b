package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// A .env next to the binary may carry QUIZRUNNER_LLM_KEY and friends.
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quizrunner [bank file]",
		Short:        "Answer multiple-choice question banks in the terminal",
		SilenceUsage: true,
	}

	run := runCmd()
	root.AddCommand(run, serveCmd(), importCmd(), banksCmd(), checkCmd())

	// Make "run" the default when no subcommand is given.
	root.RunE = run.RunE
	root.Args = run.Args

	// Register run flags on root so bare `quizrunner bank.xlsx --ui plain` still works.
	root.Flags().AddFlagSet(run.Flags())

	return root
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "", "Write logs to this file instead of stderr")
}

func addBankFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "quizrunner.db", "SQLite catalog path")
	f.String("catalog-bank", "", "Read the bank from the catalog instead of a file")
	f.Bool("skip-malformed", false, "Skip malformed rows with a warning instead of failing")
}

// setupLogging installs the default logger. The returned function closes the
// log file, if any.
func setupLogging(cmd *cobra.Command) (func(), error) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path := v.GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(out, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(out, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
	return closeFn, nil
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("QUIZRUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("quizrunner")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/quizrunner")
	v.AddConfigPath("/etc/quizrunner")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}
