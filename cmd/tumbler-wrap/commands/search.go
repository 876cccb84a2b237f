package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/tumbler-wrap/internal/wrap"
)

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <terms...>",
		Short: "Search Freepik for images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.cfg.SearchClient(a.logger).Search(cmd.Context(), strings.Join(args, " "), 0)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no results")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tURL")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Title, r.URLs.Regular)
			}
			return tw.Flush()
		},
	}
}

func presetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the vessel presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tWRAP (in)\tCONE top/bottom/height (in)")
			for _, p := range wrap.Presets() {
				cone := "-"
				if p.Tapered() {
					cone = fmt.Sprintf("%g/%g/%g", p.Cone.TopDiameter, p.Cone.BottomDiameter, p.Cone.Height)
				}
				fmt.Fprintf(tw, "%s\t%gx%g\t%s\n", p.Name, p.Wrap.Width, p.Wrap.Height, cone)
			}
			return tw.Flush()
		},
	}
}
