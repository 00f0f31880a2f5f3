package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trainsite/internal/build"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every page the build would create without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := build.New(appConfig, logger, nil).Routes(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, p := range pages {
			fmt.Fprintf(tw, "/%s/\t%s\n", p.Path, p.Template.File())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d pages\n", len(pages))
		return nil
	},
}
