package main

import (
	"slotbook/di"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run: func(_ *cobra.Command, _ []string) {
			http := di.InitializeService()
			http.Serve()
		},
	}
}
