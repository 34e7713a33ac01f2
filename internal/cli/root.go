// Package cli implements the storefront command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/di"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	Format     string
	Verbose    bool
	Timeout    time.Duration

	// Out and Err default to the command writers.
	Out io.Writer
	Err io.Writer
}

// NewRootCommand creates the storefront command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the storefront catalog from the terminal",
		Long: `storefront drives the same page controllers as the web storefront:
product lists by category, product details with related items, a cart and
store locations. The catalog comes from the HTTP API or a SQL database,
selected in the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.Out = cmd.OutOrStdout()
			opts.Err = cmd.ErrOrStderr()
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to storefront.yaml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.FormatText, "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "time allowed for catalog requests")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewLocationsCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// container loads the config and wires a container. The caller closes it.
func (o *RootOptions) container(ctx context.Context) (*di.Container, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	logCfg := cfg.Log
	if o.Verbose {
		logCfg.Level = "debug"
	}
	logger := logCfg.NewLogger(o.Err)
	c, err := di.NewContainer(ctx, cfg, di.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to start storefront", err)
	}
	return c, nil
}

// settle applies every in-flight fetch of c within the timeout.
func (o *RootOptions) settle(ctx context.Context, c *di.Container) error {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()
	if err := c.Runtime().Wait(ctx); err != nil {
		return WrapExitError(ExitFailure, "catalog did not answer in time", err)
	}
	return nil
}

func (o *RootOptions) output() *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: o.Out, ErrWriter: o.Err, Verbose: o.Verbose}
}

func closeContainer(c *di.Container, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("error closing storefront", "error", err)
	}
}
