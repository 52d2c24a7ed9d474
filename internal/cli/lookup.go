package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewLookupCommand creates the lookup command.
func NewLookupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <cui>",
		Short: "Look up a Romanian company by fiscal code",
		Long: `Look up a company in the public registry by CUI. The RO prefix is optional
and the checksum is verified before any request is made.`,
		Example: `  sitectl lookup 18547290
  sitectl lookup RO18547290 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(opts, args[0], cmd)
		},
	}
}

func runLookup(opts *RootOptions, cui string, cmd *cobra.Command) error {
	c, err := opts.build(opts)
	if err != nil {
		return err
	}
	out := &formatter{format: opts.Format, w: cmd.OutOrStdout()}

	company, err := c.Registry.Lookup(cmd.Context(), cui)
	if err != nil {
		return out.failure(err)
	}

	return out.success(company, func(w io.Writer) error {
		fmt.Fprintf(w, "%s (%s)\n", company.Name, company.VATCode)
		fmt.Fprintf(w, "  Address:      %s\n", company.Address)
		fmt.Fprintf(w, "  County:       %s\n", company.County)
		if company.RegistrationNumber != "" {
			fmt.Fprintf(w, "  Registration: %s\n", company.RegistrationNumber)
		}
		fmt.Fprintf(w, "  VAT payer:    %s\n", yesNo(company.VATPayer))
		if company.Deregistered {
			fmt.Fprintln(w, "  Status:       deregistered")
		}
		return nil
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
