package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trainsite/internal/build"
	"trainsite/internal/metrics"
)

var (
	cleanFlag  bool
	draftsFlag bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into public_dir",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("clean") {
			appConfig.Build.Clean = cleanFlag
		}
		if cmd.Flags().Changed("drafts") {
			appConfig.Build.IncludeDraft = draftsFlag
		}

		res, err := build.New(appConfig, logger, metrics.NoopRecorder{}).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %d pages from %d nodes (%d warnings) in %s\nrender hash %s\n",
			res.Pages, res.Nodes, len(res.Warnings), res.Duration.Round(time.Millisecond), res.Fingerprint.RenderHash)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&cleanFlag, "clean", false, "empty public_dir before building")
	buildCmd.Flags().BoolVar(&draftsFlag, "drafts", false, "include draft content")
}
