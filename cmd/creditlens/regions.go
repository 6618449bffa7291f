package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"creditlens/internal/region"
)

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "Print the state to region table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := region.Validate(); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UF\tREGIAO")
			for _, uf := range region.States {
				fmt.Fprintf(w, "%s\t%s\n", uf, region.Lookup(uf))
			}
			return w.Flush()
		},
	}
}
