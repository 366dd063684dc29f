package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newActorsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "actors",
		Short: "List the configured actors and the spellings that resolve to them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "id\tname\taliases")
			for _, d := range ws.actors.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Name, strings.Join(d.Aliases, ", "))
			}
			return tw.Flush()
		},
	}
}
