package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yourusername/planrisk/internal/catalog"
)

// NewCatalogCmd creates a new catalog command
func NewCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the resource types planrisk treats as high risk or security sensitive",
		Long: `List the effective resource-type catalogs: the built-in azurerm types,
extended or replaced by the file given with --catalog.

VM, network and public IP types make up the high-risk set whose deletion or
replacement is reported with a specific reason. Security types are flagged
whenever they are changed or removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd, opts)
		},
	}
}

func runCatalog(cmd *cobra.Command, opts *rootOptions) error {
	catalogs, err := catalog.Load(opts.cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	memberships := make(map[string][]string)
	for _, group := range []struct {
		name  string
		types []string
	}{
		{"vm", catalogs.VMTypes()},
		{"network", catalogs.NetworkTypes()},
		{"public_ip", catalogs.PublicIPTypes()},
		{"security", catalogs.SecurityTypes()},
	} {
		for _, t := range group.types {
			memberships[t] = append(memberships[t], group.name)
		}
	}

	if len(memberships) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No resource types in the catalogs.")
		return nil
	}

	types := make([]string, 0, len(memberships))
	for t := range memberships {
		types = append(types, t)
	}
	sort.Strings(types)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE TYPE\tCATALOGS\tHIGH RISK")
	for _, t := range types {
		highRisk := "-"
		if catalogs.IsHighRisk(t) {
			highRisk = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t, strings.Join(memberships[t], ","), highRisk)
	}
	return w.Flush()
}
