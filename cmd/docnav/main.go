package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags.
var Version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "docnav",
		Short: "Generate the MkDocs nav from the docs directory",
		Long: `docnav scans the docs directory and rewrites the nav section of mkdocs.yml.

Top-level pages become topics, titled by their frontmatter title or first
heading. Directories named <topic>-<subtopic> are nested under the topic;
other directories are appended as sections of their own.

Settings come from DOCNAV_* environment variables.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the generated nav instead of writing the config")
	return cmd
}

func run(cmd *cobra.Command, cfg config.Config, dryRun bool) error {
	logger := newLogger(cfg)
	orch := pipeline.NewOrchestrator(cfg, logger)

	var err error
	if dryRun {
		_, err = orch.Preview(cmd.Context(), cmd.OutOrStdout())
	} else {
		_, err = orch.Run(cmd.Context())
	}

	// A missing docs directory is reported but is not a failure.
	if errors.Is(err, pipeline.ErrDocsDirNotFound) {
		return nil
	}
	if err == nil && !dryRun {
		logger.Info("done, navigation is up to date")
	}
	return err
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	}
	return slog.New(log.NewWithOptions(os.Stderr, log.Options{
		Level:  log.Level(cfg.LogLevel),
		Prefix: "docnav",
	}))
}
