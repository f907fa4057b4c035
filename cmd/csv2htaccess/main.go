// Package main provides the CLI entry point for csv2htaccess.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"csv2htaccess/internal/config"
	"csv2htaccess/internal/generator"
	"csv2htaccess/internal/output"
	"csv2htaccess/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = "csv2htaccess <csv path> [--prefix path/to/prefix] [--suffix path/to/suffix]"

// cliOptions holds the parsed command-line flags.
type cliOptions struct {
	prefix  string
	suffix  string
	config  string
	verbose bool
	watch   bool

	// newLogger builds the structured logger; tests replace it.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newCommand(&cliOptions{newLogger: newLogger})
}

func newCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   usage,
		Short: "Convert a redirect table into .htaccess rewrite rules",
		Long: `csv2htaccess reads a table of redirects (one "from;to[;status]" row per line,
separated by ";", "," or a tab) and writes one RewriteRule per row to ./.htaccess.

The delimiter is taken from the first line. Rows with fewer than two columns
are reported and skipped. Rows without a status code redirect with 302.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one csv path\nUsage: %s", usage)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.prefix, "prefix", "", "file copied verbatim before the generated rules")
	flags.StringVar(&opts.suffix, "suffix", "", "file copied verbatim after the generated rules")
	flags.StringVar(&opts.config, "config", "", "YAML configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print a summary and debug logs")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "regenerate whenever the inputs change")

	return cmd
}

// newLogger builds a production zap logger on stderr, at debug level when
// verbose and warn level otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newOutput(cmd *cobra.Command, verbose bool) *output.Output {
	oc := output.DefaultConfig()
	oc.Verbose = verbose
	if w := cmd.OutOrStdout(); w != io.Writer(os.Stdout) {
		oc.Writer = w
		oc.IsTTY = false
	}
	oc.ErrWriter = cmd.ErrOrStderr()
	return output.New(oc)
}

func run(cmd *cobra.Command, csvPath string, opts *cliOptions) error {
	cfg, err := config.LoadOrDefault(opts.config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := opts.newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	out := newOutput(cmd, opts.verbose)

	for _, w := range config.ValidateConfig(cfg).Warnings {
		out.Error("Warning: %s: %s", w.Field, w.Message)
	}

	genOpts := generator.Options{
		InputPath:  csvPath,
		PrefixPath: opts.prefix,
		SuffixPath: opts.suffix,
		Config:     cfg,
		Logger:     logger,
		Out:        out,
	}

	summary, err := generator.Run(genOpts)
	if err != nil {
		return err
	}
	out.Verbose("%s", summary.PrintSummary())

	if !opts.watch {
		return nil
	}
	return watch(cmd.Context(), cfg, genOpts, out, logger)
}

// watch regenerates the output on every settled change of the inputs until
// ctx is cancelled. Failed regenerations are reported and watching goes on.
func watch(ctx context.Context, cfg *config.Configuration, genOpts generator.Options, out *output.Output, logger *zap.Logger) error {
	files := []string{genOpts.InputPath}
	if genOpts.PrefixPath != "" {
		files = append(files, genOpts.PrefixPath)
	}
	if genOpts.SuffixPath != "" {
		files = append(files, genOpts.SuffixPath)
	}

	w := watcher.New(&watcher.WatchConfig{
		Debounce:       time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		IgnorePatterns: watcher.DefaultIgnorePatterns(),
		Logger:         logger,
	}, func(changed []string) error {
		summary, err := generator.Run(genOpts)
		if err != nil {
			out.Error("Error: %v", err)
			return err
		}
		out.Info("%s (changed: %s)", summary.PrintSummary(), strings.Join(changed, ", "))
		return nil
	})

	if err := w.Start(files); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	out.Info("Watching %s for changes. Press Ctrl+C to stop.", strings.Join(files, ", "))

	<-ctx.Done()
	summary := w.Stop()
	out.Info("Stopped watching after %s: %d regenerations, %d failures",
		summary.Duration.Round(time.Second), summary.Regenerations, summary.Failures)
	return nil
}
