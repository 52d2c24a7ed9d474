// Package cli implements sitectl, the operator tool for the upstream
// integrations of the site: registry lookups and ERP provisioning.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erp/website/internal/bootstrap"
	"github.com/erp/website/internal/infrastructure/config"
	"github.com/erp/website/internal/infrastructure/logger"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Format     string
	Verbose    bool

	// build wires the services, tests replace it
	build func(opts *RootOptions) (*bootstrap.Container, error)
}

// NewRootCommand creates the root sitectl command with all subcommands.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{build: buildContainer})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitectl",
		Short: "Operate the website integrations from the command line",
		Long: `sitectl runs the same services as the website backend against the
configured upstreams: company registry lookups and ERP provisioning.

Configuration is read from config.toml and SITE_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != FormatText && opts.Format != FormatJSON {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be 'text' or 'json'", opts.Format))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: ./config.toml)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log upstream calls to stderr")

	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewOdooCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFile(opts.ConfigPath)
	}
	return config.Load()
}

func buildContainer(opts *RootOptions) (*bootstrap.Container, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "load config", err)
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"},
		zap.String("component", "sitectl"))
	if err != nil {
		return nil, err
	}

	c, err := bootstrap.New(cfg, log, nil)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "wire services", err)
	}
	return c, nil
}
