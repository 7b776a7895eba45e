package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/treasurysim/config"
	"github.com/rustyeddy/treasurysim/journal"
	"github.com/rustyeddy/treasurysim/pkg/logger"
)

type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Pretty     bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "treasurysim",
		Short:         "Treasurysim — a scripted treasury policy simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "Human-readable log output")

	cmd.AddCommand(
		newRunCmd(opts),
		newScriptCmd(opts),
		newPresetsCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("treasurysim (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadFromFile(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return cfg, nil
}

func newLogger(opts *rootOptions, cfg *config.Config) zerolog.Logger {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	return logger.New(logger.Config{
		Level:  level,
		Pretty: opts.Pretty || cfg.Log.Pretty,
	})
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return journal.Noop{}, nil
	case "csv":
		return journal.NewCSV(jc.RunsFile, jc.StepsFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
