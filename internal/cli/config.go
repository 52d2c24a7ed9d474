package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/erp/website/internal/infrastructure/config"
)

// integrationStatus is the redacted view of one upstream
type integrationStatus struct {
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint,omitempty"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Validate the configuration and list enabled integrations",
		Long: `Load and validate the configuration the server would use, then list which
upstream integrations are enabled. Secrets are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &formatter{format: opts.Format, w: cmd.OutOrStdout()}
			cfg, err := loadConfig(opts)
			if err != nil {
				return out.failure(WrapExitError(ExitUsage, "load config", err))
			}
			status := integrations(cfg)
			return out.success(status, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s), port %s\n", cfg.App.Name, cfg.App.Env, cfg.App.Port)
				for _, s := range status {
					state := "disabled"
					if s.Enabled {
						state = "enabled"
					}
					fmt.Fprintf(w, "  %-10s %-9s %s\n", s.Name, state, s.Endpoint)
				}
				return nil
			})
		},
	}
}

func integrations(cfg *config.Config) []integrationStatus {
	return []integrationStatus{
		{Name: "odoo", Enabled: cfg.Odoo.Enabled(), Endpoint: cfg.Odoo.URL},
		{Name: "mail", Enabled: cfg.Mail.Provider != "log", Endpoint: cfg.Mail.Provider},
		{Name: "registry", Enabled: cfg.Registry.Enabled(), Endpoint: cfg.Registry.BaseURL},
		{Name: "anthropic", Enabled: cfg.Anthropic.Enabled(), Endpoint: cfg.Anthropic.Model},
		{Name: "tracing", Enabled: cfg.Telemetry.Enabled, Endpoint: cfg.Telemetry.CollectorEndpoint},
	}
}
