package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Harshitk-cp/helios/internal/app"
	"github.com/Harshitk-cp/helios/internal/buildconfig"
	"github.com/Harshitk-cp/helios/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cli carries global flags and the core built for the running command.
type cli struct {
	verbose  bool
	simulate bool
	live     bool
	jsonOut  bool
	timeout  time.Duration

	logger *zap.Logger
	core   *app.Core
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "helios",
		Short:         "Belief-driven NPC dialogue engine",
		Version:       buildconfig.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&c.simulate, "simulate", false, "Force simulation mode")
	root.PersistentFlags().BoolVar(&c.live, "live", false, "Disable simulation mode (requires COMPLETION_API_KEY)")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Print results as JSON")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 2*time.Minute, "Operation timeout")
	root.MarkFlagsMutuallyExclusive("simulate", "live")

	root.AddCommand(
		newChatCmd(c),
		newAnalyzeCmd(c),
		newEchoCmd(c),
		newCharactersCmd(c),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if c.logger == nil {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if c.verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		c.logger = logger
	}

	opts := app.OptionsFromEnv()
	switch {
	case c.simulate:
		opts.SimulationMode = true
	case c.live:
		opts.SimulationMode = false
	}

	if ctx == nil {
		ctx = context.Background()
	}
	core, err := app.New(ctx, opts, c.logger)
	if err != nil {
		return err
	}
	c.core = core
	return nil
}

func (c *cli) teardown() {
	if c.core != nil {
		c.core.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *cli) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
