package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/erp/website/internal/domain/provisioning"
)

// NewOdooCommand creates the odoo command group.
func NewOdooCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odoo",
		Short: "Talk to the configured Odoo instance",
	}
	cmd.AddCommand(newOdooVersionCommand(opts))
	cmd.AddCommand(newOdooProvisionCommand(opts))
	return cmd
}

func newOdooVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version of the Odoo instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.build(opts)
			if err != nil {
				return err
			}
			out := &formatter{format: opts.Format, w: cmd.OutOrStdout()}

			version, err := c.Provisioning.Ping(cmd.Context())
			if err != nil {
				return out.failure(err)
			}
			return out.success(map[string]string{"server_version": version}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, version)
				return err
			})
		},
	}
}

type provisionOptions struct {
	*RootOptions
	req provisioning.Request
}

func newOdooProvisionCommand(root *RootOptions) *cobra.Command {
	opts := &provisionOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a company and its administrator in Odoo",
		Long: `Create a company with its partner and administrator user, exactly as the
website signup does. A password is generated and printed when --password is
not given. The welcome email is sent through the configured mail provider.`,
		Example: `  sitectl odoo provision --company "Acme SRL" --cui 18547290 \
    --admin-name "Ana Pop" --admin-email ana@acme.ro`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.req.CompanyName, "company", "", "company name (required)")
	f.StringVar(&opts.req.CUI, "cui", "", "fiscal code")
	f.StringVar(&opts.req.RegistrationNumber, "registration", "", "trade register number")
	f.StringVar(&opts.req.Street, "street", "", "street address")
	f.StringVar(&opts.req.City, "city", "", "city")
	f.StringVar(&opts.req.Zip, "zip", "", "postal code")
	f.StringVar(&opts.req.CountryCode, "country", provisioning.DefaultCountryCode, "ISO country code")
	f.StringVar(&opts.req.CompanyEmail, "company-email", "", "company email (default: admin email)")
	f.StringVar(&opts.req.Phone, "phone", "", "company phone")
	f.StringVar(&opts.req.Website, "website", "", "company website")
	f.StringVar(&opts.req.AdminName, "admin-name", "", "administrator name (required)")
	f.StringVar(&opts.req.AdminEmail, "admin-email", "", "administrator email and login (required)")
	f.StringVar(&opts.req.AdminPassword, "password", "", "administrator password (default: generated)")
	f.StringVar(&opts.req.Lang, "lang", "", "administrator language, e.g. ro_RO")

	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("admin-name")
	_ = cmd.MarkFlagRequired("admin-email")

	return cmd
}

func runProvision(opts *provisionOptions, cmd *cobra.Command) error {
	c, err := opts.build(opts.RootOptions)
	if err != nil {
		return err
	}
	out := &formatter{format: opts.Format, w: cmd.OutOrStdout()}

	res, err := c.Provisioning.CreateCompany(cmd.Context(), opts.req)
	if err != nil {
		return out.failure(err)
	}

	return out.success(res, func(w io.Writer) error {
		fmt.Fprintf(w, "Company %d created (partner %d)\n", res.CompanyID, res.PartnerID)
		fmt.Fprintf(w, "Administrator %d, login %s\n", res.UserID, res.Login)
		if res.GeneratedPassword != "" {
			fmt.Fprintf(w, "Generated password: %s\n", res.GeneratedPassword)
		}
		if !res.WelcomeEmailSent {
			fmt.Fprintln(w, "Welcome email was not sent")
		}
		return nil
	})
}
