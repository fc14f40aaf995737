package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codect/internal/config"
	"codect/internal/detector"
	"codect/internal/engine"
	"codect/internal/logger"
	"codect/internal/logger/console"
)

// app carries what every command shares once flags are parsed.
type app struct {
	cfgPath string
	debug   bool
	cfg     *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "codect",
		Short:         "Estimate whether source code was written by a person or generated by AI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", config.DefaultPath, "Path to a YAML or TOML config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newAnalyzeCmd(a),
		newScanCmd(a),
		newDiffCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newLanguagesCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.LoadConfig(a.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.debug {
		cfg.Log.Debug = true
	}
	a.cfg = cfg

	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Log.Debug,
		JSON:  cfg.Log.JSON,
	}))
	logger.Debug("config loaded", "path", a.cfgPath)
	return nil
}

func (a *app) engine() (*engine.Engine, error) {
	return engine.New(
		engine.WithLimits(a.cfg.Limits),
		engine.WithPolicy(a.cfg.Scoring),
		engine.WithDetector(detector.New()),
	)
}
