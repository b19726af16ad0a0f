package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/routefold/internal/cli/config"
	"github.com/leapstack-labs/routefold/internal/pipeline"
	"github.com/leapstack-labs/routefold/internal/report"
	"github.com/leapstack-labs/routefold/pkg/emit"
	"github.com/leapstack-labs/routefold/pkg/parser"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Format report.Format
}

// NewCommandContext collects the loaded configuration and the logger
// stored by the root command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	format, err := report.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Format: format,
	}, nil
}

// NewPipeline builds a pipeline from the configuration.
func (c *CommandContext) NewPipeline() (*pipeline.Pipeline, error) {
	dialect, err := parser.ParseDialect(c.Cfg.Dialect)
	if err != nil {
		return nil, err
	}
	target, err := emit.ParseTarget(c.Cfg.Emit)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(pipeline.Config{
		Dialect:   dialect,
		Validate:  c.Cfg.ValidateSyntax,
		Target:    target,
		OutDir:    c.Cfg.OutDir,
		Suffix:    c.Cfg.Suffix,
		Workers:   c.Cfg.Workers,
		KeepGoing: c.Cfg.KeepGoing,
		Logger:    c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return p, nil
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command having loaded one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
