package main

import (
	"github.com/spf13/cobra"

	"trainsite/internal/serve"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build, serve public_dir and rebuild on changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// dev builds always show drafts
		appConfig.Build.IncludeDraft = true
		// a failed rebuild must not wipe the site being served
		appConfig.Build.Clean = false

		s := serve.New(appConfig, logger)
		defer s.Close()
		return s.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
}
