package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chazu/meshbox/pkg/config"
	"github.com/chazu/meshbox/pkg/export"
	"github.com/chazu/meshbox/pkg/logging"
	"github.com/chazu/meshbox/pkg/metrics"
)

type buildOptions struct {
	configPath string
	dim        int
	ranks      int
	format     string
	out        string
	logLevel   string
	metrics    bool
}

func newBuildCmd() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build [flags] <source>",
		Short: "Build bounding boxes for every element of a mesh source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "configuration file (.yaml, .yml or .toml)")
	f.IntVar(&opts.dim, "dim", 3, "dimension for sources that do not call (dim ...)")
	f.IntVar(&opts.ranks, "ranks", 1, "number of simulated parallel ranks")
	f.StringVar(&opts.format, "format", config.FormatJSON, "output format (json|yaml|msgpack)")
	f.StringVar(&opts.out, "out", "", "output file; stdout when empty or -")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	f.BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics to stderr after the build")
	return cmd
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, opts buildOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("dim") {
		cfg.Dimension = opts.dim
	}
	if f.Changed("ranks") {
		cfg.Ranks = opts.ranks
	}
	if f.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if f.Changed("out") {
		cfg.Output.Path = opts.out
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if f.Changed("metrics") {
		cfg.Metrics.Enabled = opts.metrics
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, sourcePath string, opts buildOptions) error {
	stderr := cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		fmt.Fprintf(stderr, "meshbox: %v\n", err)
		return err
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: stderr})

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		logger.Error("failed to read source", "path", sourcePath, "error", err)
		return err
	}

	collector := metrics.NewCollector()
	app, err := NewApp(cfg, logger, collector)
	if err != nil {
		logger.Error("failed to create app", "error", err)
		return err
	}

	result, err := app.Build(cmd.Context(), string(source))
	if err != nil {
		var srcErr *SourceError
		if errors.As(err, &srcErr) {
			for _, e := range srcErr.Errors {
				logger.Error("source error", "path", sourcePath, "line", e.Line, "message", e.Message)
			}
		} else {
			logger.Error("build failed", "path", sourcePath, "error", err)
		}
		return err
	}

	if err := writeDocument(cmd.OutOrStdout(), cfg.Output, result.Document); err != nil {
		logger.Error("export failed", "error", err)
		return err
	}

	printSummary(stderr, sourcePath, cfg, result)
	if cfg.Metrics.Enabled {
		if err := collector.WriteText(stderr); err != nil {
			logger.Error("metrics dump failed", "error", err)
			return err
		}
	}
	return nil
}

func writeDocument(stdout io.Writer, out config.OutputConfig, doc *export.Document) (err error) {
	if out.Path == "" || out.Path == "-" {
		return export.Write(stdout, out.Format, doc)
	}
	f, err := os.Create(out.Path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()
	return export.Write(f, out.Format, doc)
}

func printSummary(w io.Writer, sourcePath string, cfg *config.Config, result *Result) {
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(w, "%s %s: %d elements, %d boxes, %d rank(s)\n",
		ok("built"), sourcePath, result.Elements, result.Document.BoxCount(), cfg.Ranks)
	for _, r := range result.Document.Ranks {
		fmt.Fprintf(w, "  %s %d: %d boxes\n", dim("rank"), r.Rank, len(r.Boxes))
	}
}
