package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themeflex/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defaultTheme := cfg.Theme.DefaultTheme()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tLAYOUT\tDESCRIPTION")
		for _, d := range theme.All() {
			name := d.Name
			if d.ID == defaultTheme {
				name += " (default)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, name, d.Layout, d.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
